// Package history persists which matches were already forecast.
//
// The backing file is a single JSON object. Keys containing
// forecast.IdentitySeparator hold forecast records when their value carries
// the record fields, in either the current or the earlier Spanish naming.
// Any other value is a legacy marker that is carried through untouched, and
// records in the Spanish naming are written back byte for byte.
package history

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"odds-forecaster/internal/forecast"
)

const dateLayout = "2006-01-02"

// Record is a persisted forecast.
type Record struct {
	ForecastDate string  `json:"forecast_date"`
	Teams        string  `json:"teams"`
	Outcome      string  `json:"predicted_outcome"`
	Odds         float64 `json:"odds"`
	League       string  `json:"league"`
}

// Entry is exactly one of a forecast record or a legacy value.
type Entry struct {
	Forecast *Record
	Legacy   json.RawMessage

	// original holds the stored bytes of a record read from the Spanish
	// field set; it is written back unchanged.
	original json.RawMessage
}

// IsForecast reports whether the entry holds a forecast record.
func (e Entry) IsForecast() bool { return e.Forecast != nil }

// StoredForecast is a record together with its identity.
type StoredForecast struct {
	ID string
	Record
}

// History is the in-memory view of the store.
type History struct {
	entries map[string]Entry
}

// New returns an empty history.
func New() *History {
	return &History{entries: make(map[string]Entry)}
}

// Has reports whether id is present, whatever its entry kind.
func (h *History) Has(id string) bool {
	_, ok := h.entries[id]
	return ok
}

// Get returns the entry stored under id.
func (h *History) Get(id string) (Entry, bool) {
	e, ok := h.entries[id]
	return e, ok
}

// Len counts all entries, legacy markers included.
func (h *History) Len() int { return len(h.entries) }

// Record stores c as a forecast made on forecastDate. An identity that is
// already present is never overwritten; the second return value is false in
// that case.
func (h *History) Record(c forecast.Candidate, forecastDate time.Time) (Record, bool) {
	if h.entries == nil {
		h.entries = make(map[string]Entry)
	}
	if existing, ok := h.entries[c.ID]; ok {
		if existing.Forecast != nil {
			return *existing.Forecast, false
		}
		return Record{}, false
	}

	rec := Record{
		ForecastDate: forecastDate.Format(dateLayout),
		Teams:        c.Teams,
		Outcome:      c.Outcome,
		Odds:         c.Odds,
		League:       c.League,
	}
	h.entries[c.ID] = Entry{Forecast: &rec}
	return rec, true
}

// Forecasts lists forecast records, newest forecast date first, then by id.
func (h *History) Forecasts() []StoredForecast {
	out := make([]StoredForecast, 0, len(h.entries))
	for id, e := range h.entries {
		if e.Forecast == nil {
			continue
		}
		out = append(out, StoredForecast{ID: id, Record: *e.Forecast})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ForecastDate != out[j].ForecastDate {
			return out[i].ForecastDate > out[j].ForecastDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ForecastCount counts forecast records only.
func (h *History) ForecastCount() int {
	n := 0
	for _, e := range h.entries {
		if e.Forecast != nil {
			n++
		}
	}
	return n
}

// MarshalJSON writes the history as a flat JSON object.
func (h *History) MarshalJSON() ([]byte, error) {
	raw := make(map[string]json.RawMessage, len(h.entries))
	for id, e := range h.entries {
		if len(e.original) > 0 {
			raw[id] = e.original
			continue
		}
		if e.Forecast != nil {
			b, err := marshalNoEscape(e.Forecast)
			if err != nil {
				return nil, err
			}
			raw[id] = b
			continue
		}
		if len(e.Legacy) == 0 {
			raw[id] = json.RawMessage("null")
			continue
		}
		raw[id] = e.Legacy
	}
	return marshalNoEscape(raw)
}

// UnmarshalJSON classifies every key once so callers never inspect keys.
func (h *History) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	entries := make(map[string]Entry, len(raw))
	for id, value := range raw {
		entries[id] = classify(id, value)
	}
	h.entries = entries
	return nil
}

// storedFields accepts both the current field names and the Spanish ones
// written by earlier versions of the history file.
type storedFields struct {
	ForecastDate *string  `json:"forecast_date"`
	Teams        *string  `json:"teams"`
	Outcome      *string  `json:"predicted_outcome"`
	Odds         *float64 `json:"odds"`
	League       *string  `json:"league"`

	FechaPronostico   *string  `json:"fecha_pronostico"`
	Equipos           *string  `json:"equipos"`
	ResultadoProbable *string  `json:"resultado_probable"`
	Cuota             *float64 `json:"cuota"`
	Liga              *string  `json:"liga"`
}

func classify(id string, value json.RawMessage) Entry {
	legacy := make(json.RawMessage, len(value))
	copy(legacy, value)

	if !strings.Contains(id, forecast.IdentitySeparator) || !isObject(value) {
		return Entry{Legacy: legacy}
	}

	var f storedFields
	if err := json.Unmarshal(value, &f); err != nil {
		return Entry{Legacy: legacy}
	}

	switch {
	case nonEmpty(f.ForecastDate) && nonEmpty(f.Teams):
		return Entry{Forecast: &Record{
			ForecastDate: *f.ForecastDate,
			Teams:        *f.Teams,
			Outcome:      deref(f.Outcome),
			Odds:         derefFloat(f.Odds),
			League:       deref(f.League),
		}}
	case nonEmpty(f.FechaPronostico) && nonEmpty(f.Equipos):
		return Entry{
			Forecast: &Record{
				ForecastDate: *f.FechaPronostico,
				Teams:        *f.Equipos,
				Outcome:      deref(f.ResultadoProbable),
				Odds:         derefFloat(f.Cuota),
				League:       deref(f.Liga),
			},
			original: legacy,
		}
	}
	return Entry{Legacy: legacy}
}

func nonEmpty(v *string) bool { return v != nil && *v != "" }

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func isObject(value json.RawMessage) bool {
	trimmed := bytes.TrimSpace(value)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
