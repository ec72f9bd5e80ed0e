package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"odds-forecaster/internal/storage"
)

// Backfill copies every forecast of the history file into the Postgres
// mirror. Identities already mirrored are left untouched.
func (a *App) Backfill(ctx context.Context, opts BackfillOptions) error {
	forecasts := a.historyStore().Load().Forecasts()
	if len(forecasts) == 0 {
		fmt.Fprintln(a.Out, "No forecasts stored; nothing to backfill.")
		return nil
	}

	var mirror storage.ForecastStore
	if opts.DryRun {
		a.Logger.Warn().Msg("backfill dry-run: nothing is written to the database")
	} else {
		store, closeStore, err := a.requireMirror(ctx)
		if err != nil {
			return fmt.Errorf("backfill: %w", err)
		}
		if closeStore != nil {
			defer closeStore()
		}
		mirror = store
	}

	runID := uuid.New()
	log := a.Logger.With().Str("run_id", runID.String()).Logger()

	inserted, existing, failed := 0, 0, 0
	for _, f := range forecasts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row, err := storage.RowFromRecord(f, runID)
		if err != nil {
			failed++
			log.Error().Err(err).Str("forecast_id", f.ID).Msg("backfill skipped record")
			continue
		}
		if mirror == nil {
			continue
		}

		written, err := mirror.InsertForecast(ctx, row)
		if err != nil {
			failed++
			log.Error().Err(err).Str("forecast_id", f.ID).Msg("backfill failed")
			continue
		}
		if written {
			inserted++
		} else {
			existing++
		}
	}

	log.Info().
		Int("records", len(forecasts)).
		Int("inserted", inserted).
		Int("existing", existing).
		Int("failed", failed).
		Msg("backfill finished")
	fmt.Fprintf(a.Out, "Records: %d, inserted: %d, already mirrored: %d, failed: %d\n",
		len(forecasts), inserted, existing, failed)

	if mirror != nil {
		total, err := mirror.CountForecasts(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to count mirrored forecasts")
		} else {
			fmt.Fprintf(a.Out, "Mirror now holds %d forecasts.\n", total)
		}
	}

	if failed > 0 {
		return errors.New("some records could not be backfilled; check the logs")
	}
	return nil
}
