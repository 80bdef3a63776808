package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/store"
	"github.com/hoergewohnheiten/hoergewohnheiten/internal/timeutil"
)

// Report summarizes one ingestion run.
type Report struct {
	PlaysFound     int
	PlaysPersisted int
	PlaysSkipped   int // duplicates and malformed timestamps
}

// Pipeline runs one user's feed end to end: cursor lookup, pagination,
// metadata resolution, timestamp normalization, idempotent persistence.
// Plays are persisted one by one, so a run that fails midway still
// advances the cursor to the last persisted play.
type Pipeline struct {
	store      *store.Store
	resolver   *Resolver
	paginator  *Paginator
	normalizer *timeutil.Normalizer
	log        zerolog.Logger
}

func NewPipeline(st *store.Store, client Client, zone *time.Location, pageSize int, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:      st,
		resolver:   NewResolver(st, client, log),
		paginator:  NewPaginator(client, pageSize),
		normalizer: timeutil.NewNormalizer(zone),
		log:        log,
	}
}

// Run ingests everything newer than the user's most recent persisted play.
// A fetch failure aborts the run and surfaces the error; plays persisted
// before the failure stay committed. Duplicate plays and malformed
// timestamps are skipped, never fatal.
func (p *Pipeline) Run(ctx context.Context, user string) (Report, error) {
	log := p.log.With().Str("run_id", uuid.NewString()).Str("user", user).Logger()

	var report Report

	cursor, ok, err := p.store.MostRecentPlayTimestamp(user)
	if err != nil {
		return report, fmt.Errorf("fetching cursor: %w", err)
	}
	var after *int64
	if ok {
		after = &cursor
		log.Info().Int64("cursor_ms", cursor).Msg("resuming from most recent persisted play")
	} else {
		log.Info().Msg("no persisted plays, fetching most recent window")
	}

	events, err := p.paginator.FetchSince(ctx, after)
	if err != nil {
		return report, fmt.Errorf("fetching feed: %w", err)
	}
	log.Info().Int("plays_found", len(events)).Msg("feed exhausted")

	return p.ingestEvents(ctx, log, user, events)
}

// Replay runs the same resolution and persistence as Run over an
// externally sourced event list, such as plays read back from monthly
// files. Duplicates are expected and skipped.
func (p *Pipeline) Replay(ctx context.Context, user string, events []PlayEvent) (Report, error) {
	log := p.log.With().Str("run_id", uuid.NewString()).Str("user", user).Logger()
	return p.ingestEvents(ctx, log, user, events)
}

func (p *Pipeline) ingestEvents(ctx context.Context, log zerolog.Logger, user string, events []PlayEvent) (Report, error) {
	report := Report{PlaysFound: len(events)}

	for _, event := range events {
		// Resolve before linking: the track row exists by the time the
		// play referencing it is persisted.
		track, err := p.resolver.Track(ctx, event.TrackID)
		if err != nil {
			return report, fmt.Errorf("resolving track %s: %w", event.TrackID, err)
		}

		normalized, err := p.normalizer.Normalize(event.PlayedAt)
		if err != nil {
			// A single corrupt upstream record, not a systemic failure.
			log.Warn().Err(err).Str("track_id", event.TrackID).Msg("skipping event with malformed timestamp")
			report.PlaysSkipped++
			continue
		}

		play := &store.Play{
			User:          user,
			PlayedAtMs:    normalized.UTC.UnixMilli(),
			PlayedAtUTC:   normalized.UTC,
			PlayedAtLocal: normalized.Local,
			Day:           normalized.Day,
			Month:         normalized.Month,
			Year:          normalized.Year,
			Hour:          normalized.Hour,
			Minute:        normalized.Minute,
			Second:        normalized.Second,
			DayOfWeek:     normalized.DayOfWeek,
			WeekOfYear:    normalized.WeekOfYear,
			TrackID:       track.ID,
		}

		err = p.store.SavePlay(play)
		if errors.Is(err, store.ErrDuplicate) {
			report.PlaysSkipped++
			continue
		}
		if err != nil {
			return report, fmt.Errorf("persisting play %d: %w", play.PlayedAtMs, err)
		}
		report.PlaysPersisted++
	}

	log.Info().
		Int("plays_found", report.PlaysFound).
		Int("plays_persisted", report.PlaysPersisted).
		Int("plays_skipped", report.PlaysSkipped).
		Msg("ingestion finished")
	return report, nil
}
