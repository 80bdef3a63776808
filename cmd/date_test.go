package cmd

import (
	"testing"
	"time"
)

func TestParseDateRangeSingleYear(t *testing.T) {
	start, end, err := parseDateRangeFromArgs([]string{"2021"}, time.UTC)
	if err != nil {
		t.Fatalf("parseDateRangeFromArgs: %v", err)
	}
	wantStart := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Errorf("got [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}
}

func TestParseDateRangeSingleMonth(t *testing.T) {
	start, end, err := parseDateRangeFromArgs([]string{"2021-03"}, time.UTC)
	if err != nil {
		t.Fatalf("parseDateRangeFromArgs: %v", err)
	}
	if start.Month() != time.March || end.Month() != time.April {
		t.Errorf("got [%v, %v)", start, end)
	}
}

func TestParseDateRangeExplicitEndInclusive(t *testing.T) {
	_, end, err := parseDateRangeFromArgs([]string{"2021-01-01", "2021-12-31"}, time.UTC)
	if err != nil {
		t.Fatalf("parseDateRangeFromArgs: %v", err)
	}
	want := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestParseDateRangeUsesZone(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	start, _, err := parseDateRangeFromArgs([]string{"2021-03-15"}, zone)
	if err != nil {
		t.Fatalf("parseDateRangeFromArgs: %v", err)
	}
	// Local midnight is 22:00 UTC the previous day.
	if got := start.UTC().Hour(); got != 22 {
		t.Errorf("start in UTC = %v", start.UTC())
	}
}

func TestParseDateRangeNoArgsStartsAtEpoch(t *testing.T) {
	start, end, err := parseDateRangeFromArgs(nil, time.UTC)
	if err != nil {
		t.Fatalf("parseDateRangeFromArgs: %v", err)
	}
	if start.Year() != 2017 || start.Month() != time.August {
		t.Errorf("start = %v", start)
	}
	if !end.After(time.Now()) {
		t.Errorf("end = %v should lie in the future", end)
	}
}

func TestParseDateRangeRejectsGarbage(t *testing.T) {
	for _, args := range [][]string{
		{"yesterday"},
		{"2021-3"},
		{"2021", "soon"},
		{"2021", "2022", "2023"},
	} {
		if _, _, err := parseDateRangeFromArgs(args, time.UTC); err == nil {
			t.Errorf("args %v: expected error", args)
		}
	}
}
