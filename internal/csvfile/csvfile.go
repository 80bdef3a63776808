// Package csvfile reads and writes the legacy monthly play files: one
// delimited text file per local calendar month, a header row, then one row
// per play mapping the UTC epoch-millisecond timestamp to a track id.
// Rows are appended oldest first, even though the feed delivers newest
// first.
package csvfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const Header = "played_at_as_utc,track_id"

// Row is one play in a monthly file.
type Row struct {
	PlayedAtMs int64
	TrackID    string
}

// MonthFileName returns the file name for a local calendar month, e.g.
// "2021-03.csv".
func MonthFileName(year, month int) string {
	return fmt.Sprintf("%04d-%02d.csv", year, month)
}

// AppendRows appends rows to the monthly file at path, creating it with a
// header row first if needed. Rows must be in chronological (oldest-first)
// order; feed-ordered (newest-first) input is rejected, not reordered.
func AppendRows(path string, rows []Row) error {
	for i := 1; i < len(rows); i++ {
		if rows[i].PlayedAtMs < rows[i-1].PlayedAtMs {
			return fmt.Errorf("rows must be oldest first: row %d (%d) precedes row %d (%d)",
				i, rows[i].PlayedAtMs, i-1, rows[i-1].PlayedAtMs)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if info.Size() == 0 {
		fmt.Fprintf(w, "%s\n", Header)
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%d,%s\n", row.PlayedAtMs, row.TrackID)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadRows reads one monthly file, skipping the header, in file order.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []Row
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		parts := strings.SplitN(text, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s:%d: malformed row %q", path, line, text)
		}
		ms, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: parsing timestamp: %w", path, line, err)
		}
		rows = append(rows, Row{PlayedAtMs: ms, TrackID: parts[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// ListMonthFiles returns the monthly files in dir, sorted ascending by
// name (which is ascending by month).
func ListMonthFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "[0-9][0-9][0-9][0-9]-[0-9][0-9].csv"))
	if err != nil {
		return nil, fmt.Errorf("listing monthly files: %w", err)
	}
	return paths, nil
}

// FeedTimestamp renders an epoch-millisecond value back into the feed
// timestamp format, for replaying file rows through the ingestion path.
// The fractional part is kept so the round trip preserves the play key.
func FeedTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}
