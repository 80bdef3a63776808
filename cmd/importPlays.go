package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/csvfile"
	"github.com/hoergewohnheiten/hoergewohnheiten/internal/ingest"
	"github.com/hoergewohnheiten/hoergewohnheiten/internal/spotify"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replays monthly files into the database",
	Long: `Reads the monthly play files from the data directory and persists
their plays. Track metadata is resolved through the Spotify API, so
valid credentials are required. Plays already in the database are
skipped, which makes the import safe to re-run.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(cmd.Context()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(ctx context.Context) error {
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

	for i := range users {
		user := &users[i]
		dir := filepath.Join(cfg.DataDir, user.Name)
		files, err := csvfile.ListMonthFiles(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Warn().Str("user", user.Name).Str("dir", dir).Msg("no monthly files found")
			continue
		}

		client := spotify.New(ctx, cfg.TokenSource(ctx, user), spotify.WithLogger(log))
		pipeline := ingest.NewPipeline(st, client, zone, cfg.PageSize, log)

		for _, path := range files {
			rows, err := csvfile.ReadRows(path)
			if err != nil {
				return err
			}

			events := make([]ingest.PlayEvent, 0, len(rows))
			for _, row := range rows {
				events = append(events, ingest.PlayEvent{
					PlayedAt: csvfile.FeedTimestamp(row.PlayedAtMs),
					TrackID:  row.TrackID,
				})
			}

			report, err := pipeline.Replay(ctx, user.Name, events)
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
			fmt.Printf("%s: %d plays found, %d persisted, %d skipped\n",
				path, report.PlaysFound, report.PlaysPersisted, report.PlaysSkipped)
		}
	}
	return nil
}
