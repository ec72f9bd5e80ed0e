package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odds-forecaster/internal/forecast"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "history.json"), zerolog.Nop())
}

func candidate(id string, odds float64) forecast.Candidate {
	return forecast.Candidate{
		ID:      id,
		Teams:   "A vs B",
		Outcome: "Home wins A",
		Odds:    odds,
		League:  "Test League",
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	h := newTestStore(t).Load()
	require.NotNil(t, h)
	assert.Equal(t, 0, h.Len())
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	h := s.Load()
	assert.Equal(t, 0, h.Len())
}

func TestLoadNonObjectIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`["a","b"]`), 0o644))
	assert.Equal(t, 0, s.Load().Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	h := New()
	_, added := h.Record(candidate("A_vs_B_2024-01-01", 1.45), time.Date(2023, 12, 30, 10, 0, 0, 0, time.UTC))
	require.True(t, added)
	require.NoError(t, s.Save(h))

	loaded := s.Load()
	require.Equal(t, 1, loaded.Len())

	e, ok := loaded.Get("A_vs_B_2024-01-01")
	require.True(t, ok)
	require.True(t, e.IsForecast())
	assert.Equal(t, Record{
		ForecastDate: "2023-12-30",
		Teams:        "A vs B",
		Outcome:      "Home wins A",
		Odds:         1.45,
		League:       "Test League",
	}, *e.Forecast)
}

func TestLegacyMarkersArePreserved(t *testing.T) {
	s := newTestStore(t)
	content := `{
  "2024-01-01": [],
  "Red FC_vs_Blue United_2024-01-02": {"forecast_date": "2024-01-01", "teams": "Red FC vs Blue United", "predicted_outcome": "Home wins Red FC", "odds": 1.8, "league": "Test League"},
  "X_vs_Y_2024-01-03": ["odd", "shape"],
  "note": {"free": "form"}
}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	h := s.Load()
	assert.Equal(t, 4, h.Len())
	assert.Equal(t, 1, h.ForecastCount())

	for _, id := range []string{"2024-01-01", "X_vs_Y_2024-01-03", "note"} {
		e, ok := h.Get(id)
		require.True(t, ok, id)
		assert.False(t, e.IsForecast(), id)
	}
	assert.True(t, h.Has("X_vs_Y_2024-01-03"), "legacy keys still count as seen")

	require.NoError(t, s.Save(h))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []any{}, decoded["2024-01-01"])
	assert.Equal(t, []any{"odd", "shape"}, decoded["X_vs_Y_2024-01-03"])
	assert.Equal(t, map[string]any{"free": "form"}, decoded["note"])
}

func TestRecordNeverOverwrites(t *testing.T) {
	h := New()
	first, added := h.Record(candidate("A_vs_B_2024-01-01", 1.3), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, added)

	again, added := h.Record(candidate("A_vs_B_2024-01-01", 9.9), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.False(t, added)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, h.ForecastCount())
}

func TestForecastsOrder(t *testing.T) {
	h := New()
	h.Record(candidate("B_vs_C_2024-01-05", 1.2), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	h.Record(candidate("A_vs_C_2024-01-05", 1.2), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	h.Record(candidate("D_vs_E_2024-01-09", 1.2), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))

	got := h.Forecasts()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"D_vs_E_2024-01-09", "A_vs_C_2024-01-05", "B_vs_C_2024-01-05"},
		[]string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	h := New()
	h.Record(candidate("A_vs_B_2024-01-01", 1.5), time.Now())
	require.NoError(t, s.Save(h))
	require.NoError(t, s.Save(h))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "history.json", entries[0].Name())
}

func TestSaveKeepsSpecialCharacters(t *testing.T) {
	s := newTestStore(t)
	h := New()
	c := candidate("Brighton & Hove_vs_Atlético_2024-01-01", 1.7)
	c.Teams = "Brighton & Hove vs Atlético"
	h.Record(c, time.Now())
	require.NoError(t, s.Save(h))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Brighton & Hove vs Atlético")
	assert.True(t, s.Load().Has("Brighton & Hove_vs_Atlético_2024-01-01"))
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	removed, err := s.Clear()
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, s.Save(New()))
	removed, err = s.Clear()
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, s.Load().Len())
}

func TestOriginalFormatSurvivesSave(t *testing.T) {
	s := newTestStore(t)
	content := `{
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
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	h := s.Load()
	e, ok := h.Get("Red FC_vs_Blue United_2024-01-02")
	require.True(t, ok)
	require.True(t, e.IsForecast())
	assert.Equal(t, Record{
		ForecastDate: "2024-01-01",
		Teams:        "Red FC vs Blue United",
		Outcome:      "Gana Red FC",
		Odds:         1.8,
		League:       "Test League",
	}, *e.Forecast)
	assert.Equal(t, 1, h.ForecastCount())
	require.Len(t, h.Forecasts(), 1)

	require.NoError(t, s.Save(h))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, content, string(raw))
}

func TestObjectWithoutRecordFieldsIsLegacy(t *testing.T) {
	s := newTestStore(t)
	content := `{"A_vs_B_2024-01-01": {"note": "kept"}, "C_vs_D_2024-01-02": {"forecast_date": "", "teams": ""}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	h := s.Load()
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 0, h.ForecastCount())
	assert.True(t, h.Has("A_vs_B_2024-01-01"))

	require.NoError(t, s.Save(h))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, map[string]any{"note": "kept"}, decoded["A_vs_B_2024-01-01"])
}
