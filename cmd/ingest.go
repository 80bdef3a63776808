package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/ingest"
	"github.com/hoergewohnheiten/hoergewohnheiten/internal/spotify"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetches new plays from the Spotify feed into the database",
	Long: `Fetches every play newer than the most recent one already stored,
resolves track, album, and artist metadata, and persists the plays.
Without --user every configured user is ingested in turn.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runIngest(cmd.Context()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	users, err := selectedUsers(cfg)
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

	var failures int
	for i := range users {
		user := &users[i]
		client := spotify.New(ctx, cfg.TokenSource(ctx, user), spotify.WithLogger(log))
		pipeline := ingest.NewPipeline(st, client, zone, cfg.PageSize, log)

		report, err := pipeline.Run(ctx, user.Name)
		if err != nil {
			// Other users still get their turn.
			log.Error().Err(err).Str("user", user.Name).Msg("ingestion failed")
			failures++
		}
		fmt.Printf("%s: %d plays found, %d persisted, %d skipped\n",
			user.Name, report.PlaysFound, report.PlaysPersisted, report.PlaysSkipped)
	}

	if failures > 0 {
		return fmt.Errorf("ingestion failed for %d of %d users", failures, len(users))
	}
	return nil
}
