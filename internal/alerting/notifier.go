package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"odds-forecaster/internal/forecast"
)

// Notification carries one day's shortlist.
type Notification struct {
	RunID    string
	Date     time.Time
	Picks    []forecast.Candidate
	Analysed int
	Found    int
}

// Notifier publishes a shortlist.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier posts through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify calls sendMessage with the rendered shortlist.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    RenderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram unexpected status: %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	n.logger.Info().Str("run_id", note.RunID).
		Int("picks", len(note.Picks)).
		Msg("shortlist sent (Telegram)")
	return nil
}

// RenderMessage formats a shortlist as plain text.
func RenderMessage(note Notification) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("[Forecasts %s]\n", note.Date.Format("02/01/2006")))
	if len(note.Picks) == 0 {
		builder.WriteString("No new matches to forecast.\n")
	}
	for i, p := range note.Picks {
		builder.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, p.Teams))
		if !p.Kickoff.IsZero() {
			builder.WriteString(fmt.Sprintf("   Kickoff: %s UTC\n", p.Kickoff.UTC().Format("02-01-2006 15:04")))
		}
		builder.WriteString(fmt.Sprintf("   League: %s\n", p.League))
		builder.WriteString(fmt.Sprintf("   Pick: %s\n", p.Outcome))
		builder.WriteString(fmt.Sprintf("   Odds: %s (%s%%)\n",
			decimal.NewFromFloat(p.Odds).String(),
			decimal.NewFromFloat(p.ImpliedProbability).StringFixed(2)))
	}
	if note.Analysed > 0 {
		builder.WriteString(fmt.Sprintf("\nCompetitions analysed: %d, new matches: %d\n", note.Analysed, note.Found))
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
