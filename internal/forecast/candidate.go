// Package forecast turns raw bookmaker odds into ranked match forecasts.
//
// The flow per match is Normalize -> Eligible, and across all competitions
// Rank picks the shortest-priced candidates.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// IdentitySeparator joins the two participants inside a forecast identity.
// History keys containing it are forecast records.
const IdentitySeparator = "_vs_"

const identityDateLayout = "2006-01-02"

// Candidate is a normalized, not yet selected, forecast for one match.
type Candidate struct {
	ID                 string
	Competition        string
	League             string
	Home               string
	Away               string
	Teams              string
	Kickoff            time.Time
	Outcome            string
	Odds               float64
	ImpliedProbability float64
}

// Identity builds the stable key home_vs_away_YYYY-MM-DD. Only the calendar
// date of kickoff (UTC) participates.
func Identity(home, away string, kickoff time.Time) string {
	return home + IdentitySeparator + away + "_" + kickoff.UTC().Format(identityDateLayout)
}

var hundred = decimal.NewFromInt(100)

// ImpliedProbability converts decimal odds to a percentage rounded to two
// places. Zero odds yield zero.
func ImpliedProbability(odds float64) float64 {
	if odds == 0 {
		return 0
	}
	return hundred.Div(decimal.NewFromFloat(odds)).Round(2).InexactFloat64()
}
