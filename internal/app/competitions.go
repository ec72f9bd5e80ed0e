package app

import (
	"context"
	"fmt"

	"odds-forecaster/internal/competition"
	"odds-forecaster/internal/fetcher"
)

const activePreview = 20

// Competitions prints the configured competitions grouped by region.
func (a *App) Competitions() error {
	keys := a.Config.Forecast.Competitions
	fmt.Fprintf(a.Out, "Total competitions: %d\n", len(keys))

	for _, group := range competition.Categorize(keys) {
		fmt.Fprintf(a.Out, "\n%s (%d competitions)\n", group.Name, len(group.Competitions))
		for _, key := range group.Competitions {
			fmt.Fprintf(a.Out, "  %s\n", key)
		}
	}
	return nil
}

// Active probes the configured competitions and lists those with matches.
func (a *App) Active(ctx context.Context) error {
	src, err := a.newOddsSource()
	if err != nil {
		return err
	}

	configured := a.Config.Forecast.Competitions
	active := fetcher.ProbeActive(ctx, src, configured, a.Logger)
	if len(active) == 0 {
		fmt.Fprintln(a.Out, "No active competitions right now.")
		return nil
	}

	fmt.Fprintf(a.Out, "Found %d active competitions of %d configured.\n", len(active), len(configured))
	shown := active
	if len(shown) > activePreview {
		shown = shown[:activePreview]
	}
	for _, key := range shown {
		fmt.Fprintf(a.Out, "  %s\n", key)
	}
	if rest := len(active) - len(shown); rest > 0 {
		fmt.Fprintf(a.Out, "  ... and %d more\n", rest)
	}
	return nil
}
