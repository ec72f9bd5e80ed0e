package forecast

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"odds-forecaster/internal/fetcher"
)

// Rejection reasons returned by Normalize.
var (
	ErrMissingTeams         = errors.New("forecast: missing home or away team")
	ErrInvalidCommenceTime  = errors.New("forecast: invalid commence time")
	ErrNoBookmakers         = errors.New("forecast: no bookmakers")
	ErrNoMarkets            = errors.New("forecast: first bookmaker has no markets")
	ErrInsufficientOutcomes = errors.New("forecast: fewer than two outcomes")
	ErrMissingPrice         = errors.New("forecast: outcome without price")
	ErrNoRecognisedOutcome  = errors.New("forecast: no outcome matches home, away or draw")
)

// UnknownLeague labels matches whose provider omitted the competition title.
const UnknownLeague = "Unknown league"

// DrawLabel is the predicted outcome for a draw.
const DrawLabel = "Draw"

var drawSynonyms = map[string]struct{}{
	"draw":   {},
	"tie":    {},
	"empate": {},
}

// HomeWinLabel is the predicted outcome label for a home win.
func HomeWinLabel(home string) string { return "Home wins " + home }

// AwayWinLabel is the predicted outcome label for an away win.
func AwayWinLabel(away string) string { return "Away wins " + away }

// Normalize derives a Candidate from one raw match. Only the first market of
// the first bookmaker is consulted. The predicted outcome is the recognised
// outcome with the lowest price; ties keep the earliest outcome.
func Normalize(raw fetcher.RawMatch, competition string) (Candidate, error) {
	home := strings.TrimSpace(raw.HomeTeam)
	away := strings.TrimSpace(raw.AwayTeam)
	if home == "" || away == "" {
		return Candidate{}, ErrMissingTeams
	}

	kickoff, err := parseCommenceTime(raw.CommenceTime)
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: %q", ErrInvalidCommenceTime, raw.CommenceTime)
	}

	if len(raw.Bookmakers) == 0 {
		return Candidate{}, ErrNoBookmakers
	}
	markets := raw.Bookmakers[0].Markets
	if len(markets) == 0 {
		return Candidate{}, ErrNoMarkets
	}
	outcomes := markets[0].Outcomes
	if len(outcomes) < 2 {
		return Candidate{}, ErrInsufficientOutcomes
	}

	var (
		bestLabel string
		bestOdds  float64
		found     bool
	)
	for _, outcome := range outcomes {
		label, ok := outcomeLabel(outcome.Name, raw.HomeTeam, raw.AwayTeam)
		if !ok {
			continue
		}
		if outcome.Price == nil {
			return Candidate{}, fmt.Errorf("%w: %q", ErrMissingPrice, outcome.Name)
		}
		if !found || *outcome.Price < bestOdds {
			bestLabel = label
			bestOdds = *outcome.Price
			found = true
		}
	}
	if !found {
		return Candidate{}, ErrNoRecognisedOutcome
	}

	league := strings.TrimSpace(raw.SportTitle)
	if league == "" {
		league = UnknownLeague
	}

	return Candidate{
		ID:                 Identity(raw.HomeTeam, raw.AwayTeam, kickoff),
		Competition:        competition,
		League:             league,
		Home:               raw.HomeTeam,
		Away:               raw.AwayTeam,
		Teams:              raw.HomeTeam + " vs " + raw.AwayTeam,
		Kickoff:            kickoff,
		Outcome:            bestLabel,
		Odds:               bestOdds,
		ImpliedProbability: ImpliedProbability(bestOdds),
	}, nil
}

// Timestamps without an offset are taken as UTC.
var offsetlessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func parseCommenceTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t.UTC(), nil
	}
	for _, layout := range offsetlessLayouts {
		if naive, naiveErr := time.ParseInLocation(layout, value, time.UTC); naiveErr == nil {
			return naive, nil
		}
	}
	return time.Time{}, err
}

func outcomeLabel(name, home, away string) (string, bool) {
	switch {
	case name == home:
		return HomeWinLabel(home), true
	case name == away:
		return AwayWinLabel(away), true
	}
	if _, ok := drawSynonyms[strings.ToLower(strings.TrimSpace(name))]; ok {
		return DrawLabel, true
	}
	return "", false
}
