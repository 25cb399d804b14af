package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/models"
)

const (
	fcmSendURL = "https://fcm.googleapis.com/fcm/send"

	// maxBodyLen caps the notification body at 120 runes
	maxBodyLen = 120
)

// FCMClient sends topic notifications to Firebase Cloud Messaging.
// Alerts go to one fixed topic channel, not to individual devices.
type FCMClient struct {
	serverKey string
	topic     string
	baseURL   string
	client    *http.Client
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewFCMClient reads the server key from credentialsPath and returns a
// ready client. A missing or empty credentials file is an error; the
// caller falls back to the no-op dispatcher.
func NewFCMClient(credentialsPath, topic string) (*FCMClient, error) {
	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read FCM credentials: %w", err)
	}

	key := strings.TrimSpace(string(raw))
	if key == "" {
		return nil, fmt.Errorf("FCM credentials file %s is empty", credentialsPath)
	}

	return &FCMClient{
		serverKey: key,
		topic:     topic,
		baseURL:   fcmSendURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Dispatch sends one alert notification to the fixed topic channel
func (c *FCMClient) Dispatch(ctx context.Context, alert models.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert payload: %w", err)
	}

	msg := fcmMessage{
		To: "/topics/" + c.topic,
		Notification: fcmNotification{
			Title: fmt.Sprintf("%s - %s", alert.Action, strings.Join(alert.Tickers, ", ")),
			Body:  truncate(alert.Title, maxBodyLen),
		},
		Data: map[string]string{
			"payload": string(payload),
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode FCM message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("FCM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("FCM send failed status=%d body=%s", resp.StatusCode, string(raw))
	}

	logger.Debug("FCM notification sent",
		zap.String("topic", c.topic),
		zap.String("action", string(alert.Action)),
	)

	return nil
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
