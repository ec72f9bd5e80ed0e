package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"odds-forecaster/internal/history"
)

// History prints stored forecasts grouped by forecast date, newest first.
// With FromDB the Postgres mirror is listed instead of the history file.
func (a *App) History(ctx context.Context, opts HistoryOptions) error {
	if opts.Limit <= 0 {
		return errors.New("limit must be greater than zero")
	}

	var forecasts []history.StoredForecast
	if opts.FromDB {
		mirrored, err := a.mirroredForecasts(ctx)
		if err != nil {
			return err
		}
		forecasts = mirrored
	} else {
		forecasts = a.historyStore().Load().Forecasts()
	}

	if len(forecasts) == 0 {
		fmt.Fprintln(a.Out, "No forecasts stored yet.")
		return nil
	}

	groups := groupByDate(forecasts)
	if len(groups) > opts.Limit {
		fmt.Fprintf(a.Out, "Showing the last %d of %d forecast dates.\n\n", opts.Limit, len(groups))
		groups = groups[:opts.Limit]
	}

	for _, group := range groups {
		fmt.Fprintf(a.Out, "Forecasts of %s\n", displayDate(group.date))

		writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "Match\tLeague\tPick\tOdds")
		for _, f := range group.forecasts {
			fmt.Fprintf(
				writer,
				"%s\t%s\t%s\t%s\n",
				sanitizeInline(f.Teams),
				sanitizeInline(f.League),
				sanitizeInline(f.Outcome),
				decimal.NewFromFloat(f.Odds).String(),
			)
		}
		writer.Flush()
		fmt.Fprintln(a.Out)
	}
	return nil
}

// ClearHistory deletes the history file.
func (a *App) ClearHistory(confirmed bool) error {
	store := a.historyStore()
	if !confirmed {
		return fmt.Errorf("refusing to delete %s without --yes", store.Path())
	}

	removed, err := store.Clear()
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(a.Out, "No history file to clear.")
		return nil
	}

	a.Logger.Info().Str("path", store.Path()).Msg("history cleared")
	fmt.Fprintln(a.Out, "History cleared.")
	return nil
}

// mirroredForecasts reads up to export.max_records rows, newest forecast
// date first, in the shape of history records.
func (a *App) mirroredForecasts(ctx context.Context) ([]history.StoredForecast, error) {
	mirror, closeMirror, err := a.requireMirror(ctx)
	if err != nil {
		return nil, fmt.Errorf("history from database: %w", err)
	}
	if closeMirror != nil {
		defer closeMirror()
	}

	total, err := mirror.CountForecasts(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := mirror.ListRecentForecasts(ctx, a.Config.Export.MaxRecords)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.Out, "Mirrored forecasts: %d\n\n", total)

	out := make([]history.StoredForecast, 0, len(rows))
	for _, row := range rows {
		out = append(out, history.StoredForecast{
			ID: row.ID,
			Record: history.Record{
				ForecastDate: row.ForecastDate.Format("2006-01-02"),
				Teams:        row.Teams,
				Outcome:      row.Outcome,
				Odds:         row.Odds.InexactFloat64(),
				League:       row.League,
			},
		})
	}
	return out, nil
}

type dateGroup struct {
	date      string
	forecasts []history.StoredForecast
}

// groupByDate relies on Forecasts being sorted by date descending.
func groupByDate(forecasts []history.StoredForecast) []dateGroup {
	var groups []dateGroup
	for _, f := range forecasts {
		if n := len(groups); n > 0 && groups[n-1].date == f.ForecastDate {
			groups[n-1].forecasts = append(groups[n-1].forecasts, f)
			continue
		}
		groups = append(groups, dateGroup{date: f.ForecastDate, forecasts: []history.StoredForecast{f}})
	}
	return groups
}

func displayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02-01-2006")
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
