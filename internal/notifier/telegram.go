package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hostpulse/internal/config"
	"hostpulse/internal/logger"
)

// maxErrorBody caps how much of a failed response body is logged.
const maxErrorBody = 500

// Telegram posts messages through the Bot API sendMessage method.
type Telegram struct {
	token   string
	chatID  string
	apiURL  string
	timeout time.Duration
	client  *http.Client
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// NewTelegram creates a Telegram sink
func NewTelegram(cfg config.TelegramConfig) *Telegram {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}
	return &Telegram{
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		apiURL:  apiURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Send posts text to the configured chat. It returns true only for HTTP 200.
func (t *Telegram) Send(ctx context.Context, text string) bool {
	log := logger.WithComponent("telegram")

	if t.token == "" || t.chatID == "" {
		log.Error().Msg("telegram is enabled but BOT_TOKEN or CHAT_ID is not set")
		return false
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode telegram request")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("failed to build telegram request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// The URL embeds the token; log only the cause.
		log.Error().Str("error", redactToken(err.Error(), t.token)).Msg("telegram request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(excerpt)).
			Msg("telegram API error")
		return false
	}

	io.Copy(io.Discard, resp.Body)
	return true
}

func redactToken(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, config.Redact(token))
}
