package fetcher

import (
	"context"
)

// OddsSource retrieves upcoming match odds for a single competition.
type OddsSource interface {
	FetchOdds(ctx context.Context, competition string) ([]RawMatch, error)
}

// RawMatch is one upcoming fixture as returned by the odds provider. Every
// field is optional on the wire; validation happens in the forecast package.
type RawMatch struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker carries the markets quoted by one bookmaker.
type Bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate string   `json:"last_update"`
	Markets    []Market `json:"markets"`
}

// Market is one quote set, e.g. h2h.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome pairs an outcome name with its decimal price. Price is nil when
// the provider omitted it.
type Outcome struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}
