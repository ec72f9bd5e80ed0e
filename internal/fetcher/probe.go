package fetcher

import (
	"context"

	"github.com/rs/zerolog"
)

// ProbeActive returns the competitions whose fetch currently yields at least
// one match, preserving input order. Fetch failures count as inactive.
func ProbeActive(ctx context.Context, src OddsSource, competitions []string, logger zerolog.Logger) []string {
	log := logger.With().Str("component", "probe").Logger()

	active := make([]string, 0)
	for i, key := range competitions {
		matches, err := src.FetchOdds(ctx, key)
		if err != nil {
			log.Debug().Err(err).Str("competition", key).Msg("probe fetch failed")
			continue
		}
		if len(matches) > 0 {
			active = append(active, key)
		}
		if (i+1)%10 == 0 {
			log.Debug().Int("checked", i+1).Int("active", len(active)).Msg("probe progress")
		}
	}

	log.Info().Int("active", len(active)).Int("configured", len(competitions)).Msg("active competitions probed")
	return active
}
