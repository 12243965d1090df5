package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const webhookTimeout = 10 * time.Second

// OrderStatusChanged sends an order status-change payload to the configured
// webhook URL. It is intended to be called in a goroutine so the API
// response is not blocked; failures are logged and swallowed.
// Payload should include: order_id, order_number, from, to, and occurred_at.
func OrderStatusChanged(webhookURL string, payload map[string]interface{}, logger *zap.Logger) {
	if webhookURL == "" {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Webhook: failed to marshal status payload", zap.Error(err))
		return
	}
	client := &http.Client{Timeout: webhookTimeout}
	req, err := http.NewRequest(http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		logger.Warn("Webhook: failed to create request", zap.String("url", webhookURL), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("Webhook: status notification request failed", zap.String("url", webhookURL), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Webhook: status notification returned non-2xx",
			zap.String("url", webhookURL), zap.Int("status", resp.StatusCode))
		return
	}
	logger.Info("Webhook: status notification sent", zap.String("url", webhookURL), zap.Int("status", resp.StatusCode))
}
