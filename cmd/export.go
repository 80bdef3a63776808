package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/csvfile"
	"github.com/hoergewohnheiten/hoergewohnheiten/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Writes stored plays into monthly files",
	Long: `Appends stored plays to one file per local calendar month under the
data directory, one subdirectory per user. Files are append-only: only
plays newer than a file's last row are added, so repeated exports are
cheap and never rewrite history.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	users, err := selectedUsers(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	log := newLogger()

	for _, user := range users {
		dir := filepath.Join(cfg.DataDir, user.Name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		months, err := st.PlayedMonths(user.Name)
		if err != nil {
			return err
		}

		var appended int
		for _, month := range months {
			n, err := exportMonth(st, user.Name, dir, month.Year(), int(month.Month()))
			if err != nil {
				return err
			}
			appended += n
		}
		log.Info().Str("user", user.Name).Int("months", len(months)).
			Int("plays_appended", appended).Msg("export finished")
	}
	return nil
}

func exportMonth(st *store.Store, user, dir string, year, month int) (int, error) {
	path := filepath.Join(dir, csvfile.MonthFileName(year, month))

	// Existing rows mark how far this file already reaches.
	var lastMs int64 = -1
	existing, err := csvfile.ReadRows(path)
	if err == nil && len(existing) > 0 {
		lastMs = existing[len(existing)-1].PlayedAtMs
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, err
	}

	plays, err := st.PlaysInMonth(user, year, month)
	if err != nil {
		return 0, err
	}

	var rows []csvfile.Row
	for _, play := range plays {
		if play.PlayedAtMs <= lastMs {
			continue
		}
		rows = append(rows, csvfile.Row{PlayedAtMs: play.PlayedAtMs, TrackID: play.TrackID})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := csvfile.AppendRows(path, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
