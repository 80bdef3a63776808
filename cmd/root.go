// Package cmd wires the subcommands together: shared flags, config
// loading, and the handles every command needs.
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/config"
	"github.com/hoergewohnheiten/hoergewohnheiten/internal/store"
)

var cfgFile string
var userName string
var databasePath string
var timezoneName string
var dataDir string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hoergewohnheiten",
	Short: "Collects and reports Spotify listening history",
	Long: `Ingests recently played tracks from the Spotify API into a local
SQLite database and serves statistics about them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.hoergewohnheiten.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&userName, "user", "u", "", "act on this configured user only")
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "", "path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(
		&timezoneName, "timezone", "", "IANA zone for local calendar fields")
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))

	rootCmd.PersistentFlags().StringVar(
		&dataDir, "data-dir", "", "directory for the monthly play files")
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log at debug level")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".hoergewohnheiten"
		// (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".hoergewohnheiten")
	}

	viper.SetEnvPrefix("hoergewohnheiten")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.PersistentFlags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func loadConfig() (*config.Config, error) {
	return config.FromViper(viper.GetViper())
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database, err)
	}
	return st, nil
}

// selectedUsers resolves the --user flag against the configured users.
// Without the flag every configured user is selected.
func selectedUsers(cfg *config.Config) ([]config.User, error) {
	if len(cfg.Users) == 0 {
		return nil, fmt.Errorf("no users configured")
	}
	name := viper.GetString("user")
	if name == "" {
		return cfg.Users, nil
	}
	user, ok := cfg.User(name)
	if !ok {
		return nil, fmt.Errorf("user %q is not configured", name)
	}
	return []config.User{*user}, nil
}
