package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const DefaultTelegramURL = "https://api.telegram.org"

type VisitLogger interface {
	LogVisit(ctx context.Context, v Visit) error
}

// TelegramLogger posts visits to a chat through the Bot API sendMessage method.
type TelegramLogger struct {
	client  *Client
	baseURL string
	token   string
	chatID  string
}

func NewTelegramLogger(client *Client, baseURL, token, chatID string) *TelegramLogger {
	if baseURL == "" {
		baseURL = DefaultTelegramURL
	}
	return &TelegramLogger{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		chatID:  chatID,
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (t *TelegramLogger) LogVisit(ctx context.Context, v Visit) error {
	return t.Send(ctx, FormatVisit(v))
}

func (t *TelegramLogger) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// the endpoint carries the bot token, keep it out of the error
		return fmt.Errorf("telegram sendMessage failed: %w", stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("telegram sendMessage: status %d", resp.StatusCode)
	}
	return nil
}

func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

// LogVisitLogger writes visits to the service log. Used when no bot is configured.
type LogVisitLogger struct {
	log *zap.Logger
}

func NewLogVisitLogger(log *zap.Logger) *LogVisitLogger {
	return &LogVisitLogger{log: log}
}

func (l *LogVisitLogger) LogVisit(_ context.Context, v Visit) error {
	l.log.Info("visit",
		zap.String("url", v.URL),
		zap.String("ip", v.IP),
		zap.String("country", v.Location.Country),
		zap.String("device_type", v.DeviceType),
		zap.String("fingerprint", v.Fingerprint),
	)
	return nil
}
