package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/store"
)

var topTracksCmd = &cobra.Command{
	Use:   "top-tracks [from] [to (optional)]",
	Short: "Lists the most played tracks",
	Long: `Lists the most played tracks over the given period. Dates take the
forms 2021, 2021-03, or 2021-03-15; a single date covers the whole
year, month, or day it names. Without dates the whole history counts.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTop(args, "track")
	},
}

var topAlbumsCmd = &cobra.Command{
	Use:   "top-albums [from] [to (optional)]",
	Short: "Lists the most played albums",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTop(args, "album")
	},
}

var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [from] [to (optional)]",
	Short: "Lists the most played artists",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTop(args, "artist")
	},
}

var topNumber int

func init() {
	for _, cmd := range []*cobra.Command{topTracksCmd, topAlbumsCmd, topArtistsCmd} {
		rootCmd.AddCommand(cmd)
		cmd.Flags().IntVarP(&topNumber, "number", "n", 10, "number of results to return")
	}
}

func runTop(args []string, unit string) {
	if err := printTop(os.Stdout, args, unit, topNumber); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func printTop(out io.Writer, args []string, unit string, numToReturn int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	zone, err := cfg.Zone()
	if err != nil {
		return err
	}
	user := viper.GetString("user")
	if user == "" {
		return fmt.Errorf("--user is required")
	}

	start, end, err := parseDateRangeFromArgs(args, zone)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var counts []store.EntityCount
	switch unit {
	case "track":
		counts, err = st.CountPerTrack(user, start.UnixMilli(), end.UnixMilli())
	case "album":
		counts, err = st.CountPerAlbum(user, start.UnixMilli(), end.UnixMilli())
	case "artist":
		counts, err = st.CountPerArtist(user, start.UnixMilli(), end.UnixMilli())
	default:
		return fmt.Errorf("unknown unit %q", unit)
	}
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Name", "Plays"})
	shown := 0
	var totalPlays int64
	for _, row := range counts {
		if shown < numToReturn {
			if err := table.Append([]string{row.Name, strconv.FormatInt(row.Count, 10)}); err != nil {
				return fmt.Errorf("rendering table: %w", err)
			}
			shown++
		}
		totalPlays += row.Count
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	const dateFormat = "2006-01-02"
	fmt.Fprintf(out, "Found %d %ss and %d plays from %s to %s\n",
		len(counts), unit, totalPlays,
		start.Format(dateFormat), end.Add(-time.Nanosecond).Format(dateFormat))

	return nil
}
