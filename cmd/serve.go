package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves listening statistics as a JSON API",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (host:port)")
	viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("addr"))
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	zone, err := cfg.Zone()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	log := newLogger()
	server := web.NewServer(st, zone, log)

	log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	return http.ListenAndServe(cfg.ListenAddr, server.Handler())
}
