package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"odds-forecaster/internal/scheduler"
	"odds-forecaster/internal/service"
)

const kickoffLayout = "02-01-2006 15:04"

// Forecast runs the pipeline once and prints the shortlist.
func (a *App) Forecast(ctx context.Context, opts ForecastOptions) error {
	src, err := a.newOddsSource()
	if err != nil {
		return err
	}

	mirror, closeMirror := a.openMirror(ctx)
	if closeMirror != nil {
		defer closeMirror()
	}

	fc, err := a.newForecaster(src, mirror)
	if err != nil {
		return err
	}

	report, err := fc.Run(ctx, service.RunOptions{
		ActiveOnly: a.Config.Forecast.ActiveOnly && !opts.All,
		DryRun:     opts.DryRun,
	})
	if err != nil {
		return err
	}

	a.printReport(a.Out, report)
	return nil
}

// Watch repeats the forecast on the scheduler cadence until interrupted.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, err := a.newOddsSource()
	if err != nil {
		return err
	}

	mirror, closeMirror := a.openMirror(ctx)
	if closeMirror != nil {
		defer closeMirror()
	}

	fc, err := a.newForecaster(src, mirror)
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Options{
		Interval:       a.Config.Scheduler.Interval,
		AlignToStart:   a.Config.Scheduler.AlignToBucket,
		StartupDelay:   a.Config.Scheduler.StartupDelay,
		RunImmediately: opts.RunImmediately,
	}, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting forecast loop")
	err = sched.Run(ctx, func(ctx context.Context, slot time.Time) error {
		report, err := fc.Run(ctx, service.RunOptions{ActiveOnly: a.Config.Forecast.ActiveOnly})
		if err != nil {
			if errors.Is(err, service.ErrRunInProgress) {
				a.Logger.Warn().Time("slot", slot).Msg("another run holds the lock; slot skipped")
				return nil
			}
			return err
		}
		a.Logger.Info().
			Str("run_id", report.RunID.String()).
			Int("picks", len(report.Picks)).
			Int("candidates", report.Candidates).
			Msg("scheduled forecast completed")
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("forecast loop terminated with error")
		return err
	}

	a.Logger.Info().Msg("forecast loop stopped")
	return nil
}

func (a *App) printReport(out io.Writer, report service.Report) {
	if len(report.Queried) == 0 {
		fmt.Fprintln(out, "No competitions with matches available right now.")
		return
	}

	if len(report.Picks) == 0 {
		fmt.Fprintln(out, "No new matches to forecast.")
		fmt.Fprintln(out, "Every upcoming match may already be forecast, none kicks off in the window, or the odds provider failed.")
		a.printStats(out, report)
		return
	}

	fmt.Fprintf(out, "Analysis complete. Found %d new matches.\n", report.Candidates)
	fmt.Fprintf(out, "Top %d forecasts - %s\n\n", len(report.Picks), report.Date.Format("02/01/2006"))

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "#\tMatch\tKickoff (UTC)\tLeague\tPick\tProbability (Odds)")
	for i, pick := range report.Picks {
		fmt.Fprintf(
			writer,
			"%d\t%s\t%s\t%s\t%s\t%s%% (%s)\n",
			i+1,
			sanitizeInline(pick.Teams),
			pick.Kickoff.UTC().Format(kickoffLayout),
			sanitizeInline(pick.League),
			sanitizeInline(pick.Outcome),
			decimal.NewFromFloat(pick.ImpliedProbability).StringFixed(2),
			decimal.NewFromFloat(pick.Odds).String(),
		)
	}
	writer.Flush()

	fmt.Fprintln(out)
	a.printStats(out, report)
	if report.Saved {
		fmt.Fprintf(out, "Forecasts saved to %s\n", a.Config.Forecast.HistoryPath)
	} else {
		fmt.Fprintln(out, "Dry run: history not modified.")
	}
}

func (a *App) printStats(out io.Writer, report service.Report) {
	fmt.Fprintf(out, "Competitions analysed: %d of %d", len(report.Queried), report.Configured)
	if report.FailedFetches > 0 {
		fmt.Fprintf(out, " (%d failed)", report.FailedFetches)
	}
	fmt.Fprintf(out, "\nForecasts already stored: %d\n", report.AlreadyForecast)
}
