package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"odds-forecaster/internal/forecast"
	"odds-forecaster/internal/history"
)

const (
	chartMaxDays    = 30
	chartBarWidth   = 32
	chartBarSpacing = 12
)

// Export renders stored forecasts as CSV and/or PNG.
func (a *App) Export(_ context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxRecords = a.Config.ResolveMaxRecords(opts.MaxRecords)

	forecasts := a.historyStore().Load().Forecasts()
	if len(forecasts) == 0 {
		a.Logger.Info().Msg("no forecasts stored; nothing to export")
		return nil
	}

	total := len(forecasts)
	if opts.MaxRecords > 0 && len(forecasts) > opts.MaxRecords {
		forecasts = forecasts[:opts.MaxRecords]
	}
	a.Logger.Info().Int("total", total).Int("exported", len(forecasts)).Msg("exporting forecasts")

	if opts.CSVPath != "" {
		if err := writeForecastsCSV(opts.CSVPath, forecasts); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeForecastsPNG(opts.PNGPath, forecasts); err != nil {
			return err
		}
	}

	return nil
}

func writeForecastsCSV(path string, forecasts []history.StoredForecast) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"id", "forecast_date", "teams", "league", "predicted_outcome", "odds", "implied_probability"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, f := range forecasts {
		record := []string{
			f.ID,
			f.ForecastDate,
			f.Teams,
			f.League,
			f.Outcome,
			decimal.NewFromFloat(f.Odds).String(),
			formatDecimal(decimal.NewFromFloat(forecast.ImpliedProbability(f.Odds)), 2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeForecastsPNG draws one bar per forecast date, oldest on the left.
func writeForecastsPNG(path string, forecasts []history.StoredForecast) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	groups := groupByDate(forecasts)
	if len(groups) > chartMaxDays {
		groups = groups[:chartMaxDays]
	}

	bars := make([]chart.Value, 0, len(groups))
	highest := 0
	for i := len(groups) - 1; i >= 0; i-- {
		n := len(groups[i].forecasts)
		if n > highest {
			highest = n
		}
		bars = append(bars, chart.Value{
			Label: displayDate(groups[i].date),
			Value: float64(n),
		})
	}

	width := len(bars)*(chartBarWidth+chartBarSpacing) + 200
	if width < 800 {
		width = 800
	}

	graph := chart.BarChart{
		Title:      "Forecasts per day",
		Width:      width,
		Height:     480,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(highest + 1)},
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		Bars: bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
