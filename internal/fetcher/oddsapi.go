package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultOddsBaseURL = "https://api.the-odds-api.com/v4"
	defaultUserAgent   = "forecaster/1.0"
)

// OddsAPIOptions parameterise The Odds API client.
type OddsAPIOptions struct {
	BaseURL   string
	APIKey    string
	Regions   string
	Markets   string
	Timeout   time.Duration
	UserAgent string
}

// OddsAPI fetches h2h odds from The Odds API v4.
type OddsAPI struct {
	opts    OddsAPIOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewOddsAPI constructs an odds client.
func NewOddsAPI(opts OddsAPIOptions, logger zerolog.Logger) *OddsAPI {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if opts.Regions == "" {
		opts.Regions = "eu"
	}
	if opts.Markets == "" {
		opts.Markets = "h2h"
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOddsBaseURL
	}

	return &OddsAPI{
		opts:    opts,
		logger:  logger.With().Str("component", "odds_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchOdds retrieves the upcoming matches of one competition.
func (o *OddsAPI) FetchOdds(ctx context.Context, competition string) ([]RawMatch, error) {
	if o.opts.APIKey == "" {
		return nil, errors.New("odds api key not configured")
	}
	if competition == "" {
		return nil, errors.New("competition key required")
	}

	query := url.Values{}
	query.Set("apiKey", o.opts.APIKey)
	query.Set("regions", o.opts.Regions)
	query.Set("markets", o.opts.Markets)
	query.Set("oddsFormat", "decimal")

	endpoint := fmt.Sprintf("%s/sports/%s/odds/?%s", o.baseURL, url.PathEscape(competition), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(o.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}

	var matches []RawMatch
	if err := json.Unmarshal(payload, &matches); err != nil {
		return nil, fmt.Errorf("decode odds for %s: %w", competition, err)
	}

	o.logger.Debug().
		Str("competition", competition).
		Int("matches", len(matches)).
		Str("requests_remaining", resp.Header.Get("x-requests-remaining")).
		Msg("odds fetched")

	return matches, nil
}

type errorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Message != "" {
			return fmt.Errorf("odds api error (%d): %s", status, apiErr.Message)
		}
		if apiErr.ErrorCode != "" {
			return fmt.Errorf("odds api error (%d): %s", status, apiErr.ErrorCode)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("odds api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("odds api error (%d)", status)
}

var _ OddsSource = (*OddsAPI)(nil)
