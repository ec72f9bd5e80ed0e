package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odds-forecaster/internal/config"
	"odds-forecaster/internal/fetcher"
	"odds-forecaster/internal/forecast"
	"odds-forecaster/internal/history"
	"odds-forecaster/internal/storage"
)

type fakeSource map[string][]fetcher.RawMatch

func (s fakeSource) FetchOdds(_ context.Context, competition string) ([]fetcher.RawMatch, error) {
	if competition == "soccer_broken" {
		return nil, errors.New("boom")
	}
	return s[competition], nil
}

func price(v float64) *float64 { return &v }

func rawMatch(home, away, commence string, homeOdds float64) fetcher.RawMatch {
	return fetcher.RawMatch{
		SportTitle:   "Test League",
		CommenceTime: commence,
		HomeTeam:     home,
		AwayTeam:     away,
		Bookmakers: []fetcher.Bookmaker{{
			Markets: []fetcher.Market{{
				Key: "h2h",
				Outcomes: []fetcher.Outcome{
					{Name: home, Price: price(homeOdds)},
					{Name: "Draw", Price: price(3.4)},
					{Name: away, Price: price(4.5)},
				},
			}},
		}},
	}
}

func newTestApp(t *testing.T, competitions ...string) (*App, *bytes.Buffer) {
	t.Helper()
	if len(competitions) == 0 {
		competitions = []string{"soccer_epl"}
	}

	cfg := &config.Config{
		App: config.AppConfig{Timezone: "UTC"},
		Forecast: config.ForecastConfig{
			HistoryPath:  filepath.Join(t.TempDir(), "history.json"),
			TopN:         5,
			WindowDays:   7,
			Competitions: competitions,
		},
		Scheduler: config.SchedulerConfig{Interval: 24 * time.Hour},
		Export:    config.ExportConfig{MaxRecords: 100},
	}

	out := &bytes.Buffer{}
	a := NewApp(cfg, zerolog.Nop())
	a.Out = out
	a.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }
	return a, out
}

func seedHistory(t *testing.T, a *App, byDate map[string][]forecast.Candidate) {
	t.Helper()
	h := history.New()
	for date, cands := range byDate {
		day, err := time.Parse("2006-01-02", date)
		require.NoError(t, err)
		for _, c := range cands {
			h.Record(c, day)
		}
	}
	require.NoError(t, a.historyStore().Save(h))
}

func candidate(home, away string, odds float64) forecast.Candidate {
	kickoff := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)
	return forecast.Candidate{
		ID:      forecast.Identity(home, away, kickoff),
		League:  "Test League",
		Teams:   home + " vs " + away,
		Kickoff: kickoff,
		Outcome: forecast.HomeWinLabel(home),
		Odds:    odds,
	}
}

func TestForecastRequiresAPIKey(t *testing.T) {
	a, out := newTestApp(t)

	err := a.Forecast(context.Background(), ForecastOptions{})
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Empty(t, out.String())

	require.ErrorIs(t, a.Active(context.Background()), config.ErrMissingAPIKey)
}

func TestForecastPrintsAndSaves(t *testing.T) {
	a, out := newTestApp(t, "soccer_epl", "soccer_broken")
	a.source = fakeSource{"soccer_epl": {
		rawMatch("Red FC", "Blue United", "2024-01-02T18:00:00Z", 1.8),
		rawMatch("Green", "White", "2024-01-03T20:30:00Z", 1.4),
	}}

	require.NoError(t, a.Forecast(context.Background(), ForecastOptions{}))

	text := out.String()
	assert.Contains(t, text, "Found 2 new matches")
	assert.Contains(t, text, "Top 2 forecasts - 01/01/2024")
	assert.Contains(t, text, "03-01-2024 20:30")
	assert.Contains(t, text, "71.43% (1.4)")
	assert.Contains(t, text, "Competitions analysed: 2 of 2 (1 failed)")
	assert.Contains(t, text, "Forecasts saved to")
	assert.Less(t, strings.Index(text, "Green vs White"), strings.Index(text, "Red FC vs Blue United"))

	h := a.historyStore().Load()
	assert.Equal(t, 2, h.ForecastCount())
	assert.True(t, h.Has("Green_vs_White_2024-01-03"))
}

func TestForecastDryRunLeavesHistory(t *testing.T) {
	a, out := newTestApp(t)
	a.source = fakeSource{"soccer_epl": {rawMatch("Red FC", "Blue United", "2024-01-02T18:00:00Z", 1.8)}}

	require.NoError(t, a.Forecast(context.Background(), ForecastOptions{DryRun: true}))
	assert.Contains(t, out.String(), "Dry run")

	_, err := os.Stat(a.Config.Forecast.HistoryPath)
	assert.True(t, os.IsNotExist(err))
}

func TestForecastNoActiveCompetitions(t *testing.T) {
	a, out := newTestApp(t)
	a.Config.Forecast.ActiveOnly = true
	a.source = fakeSource{}

	require.NoError(t, a.Forecast(context.Background(), ForecastOptions{}))
	assert.Contains(t, out.String(), "No competitions with matches available")
}

func TestHistoryGroupsByDate(t *testing.T) {
	a, out := newTestApp(t)
	seedHistory(t, a, map[string][]forecast.Candidate{
		"2024-01-01": {candidate("A", "B", 1.5)},
		"2024-01-03": {candidate("C", "D", 1.2), candidate("E", "F", 1.9)},
		"2024-01-02": {candidate("G", "H", 2.1)},
	})

	require.NoError(t, a.History(context.Background(), HistoryOptions{Limit: 2}))

	text := out.String()
	assert.Contains(t, text, "Showing the last 2 of 3 forecast dates.")
	first := strings.Index(text, "Forecasts of 03-01-2024")
	second := strings.Index(text, "Forecasts of 02-01-2024")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.NotContains(t, text, "Forecasts of 01-01-2024")
	assert.Contains(t, text, "C vs D")
}

func TestHistoryEmpty(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.History(context.Background(), HistoryOptions{Limit: 10}))
	assert.Contains(t, out.String(), "No forecasts stored yet.")

	require.Error(t, a.History(context.Background(), HistoryOptions{}))
}

func TestClearHistory(t *testing.T) {
	a, out := newTestApp(t)
	seedHistory(t, a, map[string][]forecast.Candidate{"2024-01-01": {candidate("A", "B", 1.5)}})

	require.Error(t, a.ClearHistory(false))
	_, err := os.Stat(a.Config.Forecast.HistoryPath)
	require.NoError(t, err)

	require.NoError(t, a.ClearHistory(true))
	assert.Contains(t, out.String(), "History cleared.")

	require.NoError(t, a.ClearHistory(true))
	assert.Contains(t, out.String(), "No history file to clear.")
}

func TestCompetitionsByRegion(t *testing.T) {
	a, out := newTestApp(t, "soccer_epl", "soccer_brazil_campeonato", "soccer_fifa_world_cup_womens", "soccer_mystery")

	require.NoError(t, a.Competitions())

	text := out.String()
	assert.Contains(t, text, "Total competitions: 4")
	assert.Contains(t, text, "Europe (1 competitions)")
	assert.Contains(t, text, "South America (1 competitions)")
	assert.Contains(t, text, "Other (1 competitions)")
}

func TestActivePreview(t *testing.T) {
	keys := make([]string, 0, 25)
	src := fakeSource{}
	for i := 0; i < 25; i++ {
		key := fmt.Sprintf("soccer_league_%02d", i)
		keys = append(keys, key)
		src[key] = []fetcher.RawMatch{rawMatch("A", "B", "2024-01-02T18:00:00Z", 1.5)}
	}
	a, out := newTestApp(t, keys...)
	a.Config.OddsAPI.APIKey = "unused"
	a.source = src

	require.NoError(t, a.Active(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Found 25 active competitions of 25 configured.")
	assert.Contains(t, text, "soccer_league_19")
	assert.NotContains(t, text, "soccer_league_20")
	assert.Contains(t, text, "... and 5 more")
}

func TestExportCSV(t *testing.T) {
	a, _ := newTestApp(t)
	seedHistory(t, a, map[string][]forecast.Candidate{
		"2024-01-01": {candidate("A", "B", 1.5)},
		"2024-01-02": {candidate("C", "D", 2)},
	})

	path := filepath.Join(t.TempDir(), "out", "forecasts.csv")
	require.NoError(t, a.Export(context.Background(), ExportOptions{CSVPath: path, MaxRecords: 1}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, []string{"C_vs_D_2024-01-02", "2024-01-02", "C vs D", "Test League", "Home wins C", "2", "50.00"}, rows[1])
}

func TestExportRequiresTarget(t *testing.T) {
	a, _ := newTestApp(t)
	require.Error(t, a.Export(context.Background(), ExportOptions{}))
}

func TestBackfillDryRun(t *testing.T) {
	a, out := newTestApp(t)
	seedHistory(t, a, map[string][]forecast.Candidate{"2024-01-01": {candidate("A", "B", 1.5)}})

	require.NoError(t, a.Backfill(context.Background(), BackfillOptions{DryRun: true}))
	assert.Contains(t, out.String(), "Records: 1, inserted: 0")

	require.Error(t, a.Backfill(context.Background(), BackfillOptions{}))
}

func TestResendLatest(t *testing.T) {
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		text = body["text"]
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	a, _ := newTestApp(t)
	require.Error(t, a.ResendLatest(context.Background()))

	a.Config.Alerting.Enabled = true
	a.Config.Alerting.Telegram = config.TelegramConfig{Enabled: true, BotToken: "t", ChatID: "c", APIBase: srv.URL}
	require.Error(t, a.ResendLatest(context.Background()))

	seedHistory(t, a, map[string][]forecast.Candidate{
		"2024-01-01": {candidate("A", "B", 1.5)},
		"2024-01-02": {candidate("C", "D", 2)},
	})
	require.NoError(t, a.ResendLatest(context.Background()))
	assert.Contains(t, text, "[Forecasts 02/01/2024]")
	assert.Contains(t, text, "C vs D")
	assert.NotContains(t, text, "A vs B")
	assert.NotContains(t, text, "Kickoff")
}

type memoryMirror struct {
	rows map[string]storage.ForecastRow
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{rows: make(map[string]storage.ForecastRow)}
}

func (m *memoryMirror) InsertForecast(_ context.Context, row storage.ForecastRow) (bool, error) {
	if _, ok := m.rows[row.ID]; ok {
		return false, nil
	}
	m.rows[row.ID] = row
	return true, nil
}

func (m *memoryMirror) ListRecentForecasts(_ context.Context, limit int) ([]storage.ForecastRow, error) {
	out := make([]storage.ForecastRow, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ForecastDate.Equal(out[j].ForecastDate) {
			return out[i].ForecastDate.After(out[j].ForecastDate)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryMirror) CountForecasts(context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

const originalHistory = `{
  "2024-01-01": [],
  "Red FC_vs_Blue United_2024-01-02": {
    "fecha_pronostico": "2024-01-01",
    "equipos": "Red FC vs Blue United",
    "resultado_probable": "Gana Red FC",
    "cuota": 1.8,
    "liga": "Test League"
  }
}
`

func TestHistoryListsOriginalFormat(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, os.WriteFile(a.Config.Forecast.HistoryPath, []byte(originalHistory), 0o644))

	require.NoError(t, a.History(context.Background(), HistoryOptions{Limit: 10}))
	assert.Contains(t, out.String(), "Forecasts of 01-01-2024")
	assert.Contains(t, out.String(), "Gana Red FC")
}

func TestBackfillWritesMirror(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, os.WriteFile(a.Config.Forecast.HistoryPath, []byte(originalHistory), 0o644))
	h := a.historyStore().Load()
	h.Record(candidate("C", "D", 2), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, a.historyStore().Save(h))

	mirror := newMemoryMirror()
	a.mirror = mirror

	require.NoError(t, a.Backfill(context.Background(), BackfillOptions{}))
	assert.Contains(t, out.String(), "Records: 2, inserted: 2, already mirrored: 0, failed: 0")
	assert.Contains(t, out.String(), "Mirror now holds 2 forecasts.")
	assert.Equal(t, "Gana Red FC", mirror.rows["Red FC_vs_Blue United_2024-01-02"].Outcome)

	out.Reset()
	require.NoError(t, a.Backfill(context.Background(), BackfillOptions{}))
	assert.Contains(t, out.String(), "inserted: 0, already mirrored: 2")
}

func TestHistoryFromDatabase(t *testing.T) {
	a, out := newTestApp(t)
	require.ErrorIs(t, a.History(context.Background(), HistoryOptions{Limit: 10, FromDB: true}), errNoDatabase)

	mirror := newMemoryMirror()
	runID := uuid.New()
	for _, row := range []storage.ForecastRow{
		{ID: "A_vs_B_2024-01-02", RunID: runID, ForecastDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Teams: "A vs B", League: "L", Outcome: "Draw", Odds: decimal.RequireFromString("3.1")},
		{ID: "C_vs_D_2024-01-04", RunID: runID, ForecastDate: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Teams: "C vs D", League: "L", Outcome: "Home wins C", Odds: decimal.RequireFromString("1.25")},
	} {
		_, err := mirror.InsertForecast(context.Background(), row)
		require.NoError(t, err)
	}
	a.mirror = mirror

	require.NoError(t, a.History(context.Background(), HistoryOptions{Limit: 1, FromDB: true}))

	text := out.String()
	assert.Contains(t, text, "Mirrored forecasts: 2")
	assert.Contains(t, text, "Forecasts of 03-01-2024")
	assert.Contains(t, text, "1.25")
	assert.NotContains(t, text, "A vs B")
}
