package csvfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendKeepsFileOldestFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, MonthFileName(2021, 3))

	rows := []Row{
		{PlayedAtMs: 1000, TrackID: "t1"},
		{PlayedAtMs: 2000, TrackID: "t2"},
		{PlayedAtMs: 3000, TrackID: "t3"},
	}
	if err := AppendRows(path, rows); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}

	got, err := ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	want := []int64{1000, 2000, 3000}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %d rows", got, len(want))
	}
	for i, ms := range want {
		if got[i].PlayedAtMs != ms {
			t.Errorf("rows[%d].PlayedAtMs = %d, want %d", i, got[i].PlayedAtMs, ms)
		}
	}
}

func TestAppendRejectsFeedOrderedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, MonthFileName(2021, 3))

	// Feed order: newest first. The file contract is oldest first.
	rows := []Row{
		{PlayedAtMs: 3000, TrackID: "t3"},
		{PlayedAtMs: 2000, TrackID: "t2"},
	}
	if err := AppendRows(path, rows); err == nil {
		t.Fatal("expected error for newest-first rows")
	}

	// Nothing was written, not even the header.
	if _, err := os.Stat(path); err == nil {
		t.Error("rejected append must not create the file")
	}
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, MonthFileName(2021, 3))

	if err := AppendRows(path, []Row{{PlayedAtMs: 1000, TrackID: "t1"}}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}
	if err := AppendRows(path, []Row{{PlayedAtMs: 2000, TrackID: "t2"}}); err != nil {
		t.Fatalf("AppendRows (second): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := Header + "\n1000,t1\n2000,t2\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestMonthFileName(t *testing.T) {
	if got := MonthFileName(2021, 3); got != "2021-03.csv" {
		t.Errorf("MonthFileName = %q", got)
	}
}

func TestListMonthFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2021-03.csv", "2020-12.csv", "notes.txt", "all_time.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(Header+"\n"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	paths, err := ListMonthFiles(dir)
	if err != nil {
		t.Fatalf("ListMonthFiles: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v, want 2 monthly files", paths)
	}
	if filepath.Base(paths[0]) != "2020-12.csv" || filepath.Base(paths[1]) != "2021-03.csv" {
		t.Errorf("paths = %v, want ascending months", paths)
	}
}

func TestFeedTimestamp(t *testing.T) {
	if got := FeedTimestamp(1615804200123); got != "2021-03-15T10:30:00.123Z" {
		t.Errorf("FeedTimestamp = %q", got)
	}
}
