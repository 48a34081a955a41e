// Package llm provides generative text backends for push notification
// drafting. Backends implement the Client interface; the provider is resolved
// once per run from configuration, never lazily per call.
package llm

import (
	"context"
	"time"
)

// Client defines the interface for generative push-text providers.
type Client interface {
	// GeneratePush drafts notification text from structured client facts.
	GeneratePush(ctx context.Context, req PushRequest) (string, error)
	// RepairPush rewrites a draft to preserve meaning while fitting the
	// target length band.
	RepairPush(ctx context.Context, draft string, minLen, maxLen int) (string, error)
}

// PushRequest carries the facts a backend may use in the draft. Figures are
// already currency-formatted; the backend must not invent numbers.
type PushRequest struct {
	ClientName string            `json:"client_name"`
	Product    string            `json:"product"`
	Facts      map[string]string `json:"facts"`
}

// Config holds configuration for constructing a backend client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// pushSystemPrompt fixes the house style for generated notifications.
const pushSystemPrompt = "Ты пишешь короткие пуш-уведомления банка на русском языке. " +
	"Тон: дружелюбный, на равных, без канцелярита и давления. " +
	"Формат: обращение по имени, один важный факт из данных клиента, польза продукта, один глагол-призыв в конце. " +
	"Длина 180-220 символов, максимум один восклицательный знак, без КАПСА. " +
	"Используй только цифры из переданных данных. Ответь только текстом уведомления."
