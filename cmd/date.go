package cmd

import (
	"fmt"
	"regexp"
	"time"
)

// historyEpoch is the first month with listening data.
var historyEpoch = "2017-08-01"

type parsedDate struct {
	date  time.Time
	year  bool
	month bool
	day   bool
}

// parseDateRangeFromArgs turns zero, one, or two date arguments into a
// half-open [start, end) range of local instants. A single argument
// covers the whole year, month, or day it names. No arguments means
// everything up to now.
func parseDateRangeFromArgs(args []string, zone *time.Location) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 0:
		start, _, err = getImplicitDateRange(historyEpoch, zone)
		if err != nil {
			return
		}
		end = time.Now().In(zone).AddDate(0, 0, 1)

	case 1:
		start, end, err = getImplicitDateRange(args[0], zone)

	case 2:
		start, end, err = getExplicitDateRange(args[0], args[1], zone)

	default:
		err = fmt.Errorf("expected at most two date arguments")
	}
	return
}

func getImplicitDateRange(ds string, zone *time.Location) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds, zone)
	if err != nil {
		return
	}

	start = date.date
	switch {
	case date.year:
		end = start.AddDate(1, 0, 0)

	case date.month:
		end = start.AddDate(0, 1, 0)

	case date.day:
		end = start.AddDate(0, 0, 1)
	}

	return
}

func getExplicitDateRange(startString, endString string, zone *time.Location) (start time.Time, end time.Time, err error) {
	startParsed, err := parseSingleDatestring(startString, zone)
	if err != nil {
		return
	}
	start = startParsed.date

	// The end argument is inclusive: "2021 2022" covers both years.
	_, end, err = getImplicitDateRange(endString, zone)
	return
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)
var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func parseSingleDatestring(ds string, zone *time.Location) (date parsedDate, err error) {
	if yearPattern.MatchString(ds) {
		date.date, err = time.ParseInLocation("2006", ds, zone)
		if err != nil {
			err = fmt.Errorf("parsing datestring as year: %w", err)
			return
		}
		date.year = true
		return
	}

	if monthPattern.MatchString(ds) {
		date.date, err = time.ParseInLocation("2006-01", ds, zone)
		if err != nil {
			err = fmt.Errorf("parsing datestring as month: %w", err)
			return
		}
		date.month = true
		return
	}

	if dayPattern.MatchString(ds) {
		date.date, err = time.ParseInLocation("2006-01-02", ds, zone)
		if err != nil {
			err = fmt.Errorf("parsing datestring as day: %w", err)
			return
		}
		date.day = true
		return
	}

	err = fmt.Errorf("invalid format: %q", ds)
	return
}
