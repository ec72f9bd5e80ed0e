package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"odds-forecaster/internal/alerting"
	"odds-forecaster/internal/fetcher"
	"odds-forecaster/internal/forecast"
	"odds-forecaster/internal/history"
	"odds-forecaster/internal/storage"
)

// ErrRunInProgress is returned when another process holds the run lock.
var ErrRunInProgress = errors.New("another forecast run holds the advisory lock")

// Options configure a Forecaster.
type Options struct {
	Competitions    []string
	TopN            int
	WindowDays      int
	Location        *time.Location
	AdvisoryLockKey int64
	Now             func() time.Time
}

// RunOptions tune a single run.
type RunOptions struct {
	ActiveOnly   bool
	DryRun       bool
	Competitions []string
}

// Report summarises a run.
type Report struct {
	RunID           uuid.UUID
	Date            time.Time
	Configured      int
	Queried         []string
	Candidates      int
	FailedFetches   int
	AlreadyForecast int
	Picks           []forecast.Candidate
	Saved           bool
}

// Forecaster runs the fetch -> normalize -> filter -> rank -> record pipeline.
type Forecaster struct {
	source   fetcher.OddsSource
	history  history.Store
	mirror   storage.ForecastStore
	locker   storage.AdvisoryLocker
	notifier alerting.Notifier
	opts     Options
	logger   zerolog.Logger
}

// New constructs a Forecaster. mirror and notifier may be nil.
func New(opts Options, source fetcher.OddsSource, store history.Store, mirror storage.ForecastStore, notifier alerting.Notifier, logger zerolog.Logger) *Forecaster {
	if opts.TopN <= 0 {
		opts.TopN = forecast.DefaultTopN
	}
	if opts.WindowDays < 0 {
		opts.WindowDays = forecast.DefaultWindowDays
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var locker storage.AdvisoryLocker
	if l, ok := mirror.(storage.AdvisoryLocker); ok {
		locker = l
	}

	return &Forecaster{
		source:   source,
		history:  store,
		mirror:   mirror,
		locker:   locker,
		notifier: notifier,
		opts:     opts,
		logger:   logger.With().Str("component", "forecaster").Logger(),
	}
}

// Today returns the current instant in the configured location; only its
// calendar date matters to the window filter.
func (f *Forecaster) Today() time.Time {
	return f.opts.Now().In(f.opts.Location)
}

// Competitions returns the configured competition list.
func (f *Forecaster) Competitions() []string {
	out := make([]string, len(f.opts.Competitions))
	copy(out, f.opts.Competitions)
	return out
}

// ActiveCompetitions probes every configured competition.
func (f *Forecaster) ActiveCompetitions(ctx context.Context) []string {
	return fetcher.ProbeActive(ctx, f.source, f.opts.Competitions, f.logger)
}

// MatchesFor fetches one competition and returns its eligible candidates.
// Malformed payloads are skipped; a fetch failure yields no candidates and
// the error.
func (f *Forecaster) MatchesFor(ctx context.Context, competition string, seen forecast.Seen, today time.Time) ([]forecast.Candidate, error) {
	raw, err := f.source.FetchOdds(ctx, competition)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", competition, err)
	}

	out := make([]forecast.Candidate, 0, len(raw))
	for _, match := range raw {
		c, err := forecast.Normalize(match, competition)
		if err != nil {
			f.logger.Debug().Err(err).
				Str("competition", competition).
				Str("home", match.HomeTeam).
				Str("away", match.AwayTeam).
				Msg("payload skipped")
			continue
		}
		if !forecast.Eligible(c, seen, today, f.opts.WindowDays) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Collect runs MatchesFor over competitions sequentially. A failing
// competition contributes nothing. The same identity reported by two
// competitions is kept once.
func (f *Forecaster) Collect(ctx context.Context, competitions []string, seen forecast.Seen, today time.Time) ([]forecast.Candidate, int) {
	var (
		all    []forecast.Candidate
		failed int
	)
	pooled := make(map[string]struct{})

	for _, key := range competitions {
		cands, err := f.MatchesFor(ctx, key, seen, today)
		if err != nil {
			failed++
			f.logger.Warn().Err(err).Str("competition", key).Msg("competition skipped")
			continue
		}
		for _, c := range cands {
			if _, dup := pooled[c.ID]; dup {
				continue
			}
			pooled[c.ID] = struct{}{}
			all = append(all, c)
		}
		f.logger.Debug().Str("competition", key).Int("eligible", len(cands)).Msg("competition processed")
	}
	return all, failed
}

// Run executes one full forecast: load history, choose competitions,
// collect, rank, record and save.
func (f *Forecaster) Run(ctx context.Context, ro RunOptions) (Report, error) {
	report := Report{RunID: uuid.New(), Date: f.Today()}
	log := f.logger.With().Str("run_id", report.RunID.String()).Logger()

	unlock, err := f.acquireLock(ctx)
	if err != nil {
		return report, err
	}
	if unlock != nil {
		defer unlock()
	}

	hist := f.history.Load()
	report.AlreadyForecast = hist.ForecastCount()

	competitions := ro.Competitions
	if len(competitions) == 0 {
		competitions = f.opts.Competitions
	}
	report.Configured = len(competitions)
	if ro.ActiveOnly {
		competitions = fetcher.ProbeActive(ctx, f.source, competitions, log)
	}
	report.Queried = competitions

	if len(competitions) == 0 {
		log.Warn().Msg("no competitions with matches available")
		return report, nil
	}

	cands, failed := f.Collect(ctx, competitions, hist, report.Date)
	report.Candidates = len(cands)
	report.FailedFetches = failed
	report.Picks = forecast.Rank(cands, f.opts.TopN)

	log.Info().
		Int("competitions", len(competitions)).
		Int("candidates", report.Candidates).
		Int("failed", failed).
		Int("picks", len(report.Picks)).
		Msg("candidates ranked")

	if len(report.Picks) == 0 {
		return report, nil
	}

	for _, pick := range report.Picks {
		hist.Record(pick, report.Date)
	}

	if ro.DryRun {
		log.Warn().Msg("dry run: history not saved")
		return report, nil
	}

	if err := f.history.Save(hist); err != nil {
		return report, fmt.Errorf("save history: %w", err)
	}
	report.Saved = true

	f.mirrorPicks(ctx, log, report)
	f.notify(ctx, log, report)

	return report, nil
}

func (f *Forecaster) mirrorPicks(ctx context.Context, log zerolog.Logger, report Report) {
	if f.mirror == nil {
		return
	}
	for _, pick := range report.Picks {
		row := storage.RowFromCandidate(pick, report.RunID, report.Date)
		if _, err := f.mirror.InsertForecast(ctx, row); err != nil {
			log.Error().Err(err).Str("forecast_id", pick.ID).Msg("failed to mirror forecast")
		}
	}
}

func (f *Forecaster) notify(ctx context.Context, log zerolog.Logger, report Report) {
	if f.notifier == nil {
		return
	}
	note := alerting.Notification{
		RunID:    report.RunID.String(),
		Date:     report.Date,
		Picks:    report.Picks,
		Analysed: len(report.Queried),
		Found:    report.Candidates,
	}
	if err := f.notifier.Notify(ctx, note); err != nil {
		log.Error().Err(err).Msg("failed to dispatch shortlist")
	}
}

func (f *Forecaster) acquireLock(ctx context.Context) (func(), error) {
	if f.opts.AdvisoryLockKey == 0 || f.locker == nil {
		return nil, nil
	}
	unlock, acquired, err := f.locker.TryAdvisoryLock(ctx, f.opts.AdvisoryLockKey)
	if err != nil {
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	return unlock, nil
}
