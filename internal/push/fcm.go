// Package push delivers notifications to the mobile client over FCM.
// The core pipeline only produces the body text; title, token and delivery
// retries live here, at the transport edge.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fcmSendURL = "https://fcm.googleapis.com/fcm/send"

// DefaultTitle is the standing title for product offers.
const DefaultTitle = "Выгодное предложение"

// Message is the delivery contract with the mobile client.
type Message struct {
	Token string            `json:"-"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Sender delivers one message. Satisfied by FCMClient and by test mocks.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// FCMClient sends messages through the FCM legacy HTTP API.
type FCMClient struct {
	httpClient *http.Client
	serverKey  string
	baseURL    string
}

// NewFCMClient creates a delivery client.
func NewFCMClient(serverKey string, timeout time.Duration) (*FCMClient, error) {
	if serverKey == "" {
		return nil, fmt.Errorf("FCM server key is required")
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &FCMClient{
		serverKey: serverKey,
		baseURL:   fcmSendURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Send pushes one message. The caller wraps this with its retry budget.
func (c *FCMClient) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return fmt.Errorf("message token is required")
	}

	payload := map[string]any{
		"to": msg.Token,
		"notification": map[string]string{
			"title": msg.Title,
			"body":  msg.Body,
		},
	}
	if len(msg.Data) > 0 {
		payload["data"] = msg.Data
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(string(jsonBody)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fcm error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
