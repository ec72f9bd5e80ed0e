package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"odds-forecaster/internal/forecast"
	"odds-forecaster/internal/history"
)

// ForecastRow mirrors one selected forecast in PostgreSQL.
type ForecastRow struct {
	ID                 string
	RunID              uuid.UUID
	ForecastDate       time.Time
	Competition        string
	League             string
	Teams              string
	Kickoff            time.Time
	Outcome            string
	Odds               decimal.Decimal
	ImpliedProbability decimal.Decimal
	CreatedAt          time.Time
}

// RowFromCandidate converts a selected candidate into a mirror row.
func RowFromCandidate(c forecast.Candidate, runID uuid.UUID, forecastDate time.Time) ForecastRow {
	return ForecastRow{
		ID:                 c.ID,
		RunID:              runID,
		ForecastDate:       time.Date(forecastDate.Year(), forecastDate.Month(), forecastDate.Day(), 0, 0, 0, 0, time.UTC),
		Competition:        c.Competition,
		League:             c.League,
		Teams:              c.Teams,
		Kickoff:            c.Kickoff.UTC(),
		Outcome:            c.Outcome,
		Odds:               decimal.NewFromFloat(c.Odds),
		ImpliedProbability: decimal.NewFromFloat(c.ImpliedProbability),
	}
}

// RowFromRecord rebuilds a mirror row from a stored history record. The
// history file keeps no competition or kickoff time, so the kickoff is the
// match date encoded in the identity at midnight UTC.
func RowFromRecord(stored history.StoredForecast, runID uuid.UUID) (ForecastRow, error) {
	forecastDate, err := time.Parse("2006-01-02", stored.ForecastDate)
	if err != nil {
		return ForecastRow{}, fmt.Errorf("forecast date of %s: %w", stored.ID, err)
	}

	idx := strings.LastIndex(stored.ID, "_")
	if idx < 0 {
		return ForecastRow{}, fmt.Errorf("identity %s has no match date", stored.ID)
	}
	kickoff, err := time.Parse("2006-01-02", stored.ID[idx+1:])
	if err != nil {
		return ForecastRow{}, fmt.Errorf("match date of %s: %w", stored.ID, err)
	}

	return ForecastRow{
		ID:                 stored.ID,
		RunID:              runID,
		ForecastDate:       forecastDate,
		League:             stored.League,
		Teams:              stored.Teams,
		Kickoff:            kickoff,
		Outcome:            stored.Outcome,
		Odds:               decimal.NewFromFloat(stored.Odds),
		ImpliedProbability: decimal.NewFromFloat(forecast.ImpliedProbability(stored.Odds)),
	}, nil
}
