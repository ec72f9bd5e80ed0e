package app

import (
	"context"
	"errors"
	"time"

	"odds-forecaster/internal/alerting"
	"odds-forecaster/internal/forecast"
)

// ResendLatest publishes the picks of the most recent forecast date again
// through the configured channel. Useful to check alerting settings.
func (a *App) ResendLatest(ctx context.Context) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting is not enabled")
	}

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("no alert channel configured")
	}

	forecasts := a.historyStore().Load().Forecasts()
	if len(forecasts) == 0 {
		return errors.New("no forecasts stored; run forecast first")
	}

	latest := groupByDate(forecasts)[0]
	date, err := time.Parse("2006-01-02", latest.date)
	if err != nil {
		return err
	}

	picks := make([]forecast.Candidate, 0, len(latest.forecasts))
	for _, f := range latest.forecasts {
		picks = append(picks, forecast.Candidate{
			ID:                 f.ID,
			League:             f.League,
			Teams:              f.Teams,
			Outcome:            f.Outcome,
			Odds:               f.Odds,
			ImpliedProbability: forecast.ImpliedProbability(f.Odds),
		})
	}

	return notifier.Notify(ctx, alerting.Notification{
		RunID: "resend-" + latest.date,
		Date:  date,
		Picks: picks,
	})
}
