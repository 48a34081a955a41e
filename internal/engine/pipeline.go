// Package engine orchestrates the recommendation pipeline: signals, benefit
// estimation, utility scoring, ranked selection, notification text.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/almasov/nudge/internal/benefit"
	"github.com/almasov/nudge/internal/common"
	"github.com/almasov/nudge/internal/config"
	"github.com/almasov/nudge/internal/llm"
	"github.com/almasov/nudge/internal/model"
	"github.com/almasov/nudge/internal/notify"
	"github.com/almasov/nudge/internal/signal"
)

// Pipeline runs the full per-client recommendation flow. It holds no mutable
// state between clients, so one Pipeline serves concurrent workers.
type Pipeline struct {
	extractor *signal.Extractor
	estimator *benefit.Estimator
	generator *notify.Generator
}

// New wires the pipeline from validated configuration. The generative
// backend, when configured, is constructed here — once, before any client
// work begins.
func New(cfg *config.Config) (*Pipeline, error) {
	var client llm.Client
	if cfg.LLM.Provider != "template" {
		var err error
		client, err = llm.NewClient(llm.Config{
			Provider:    cfg.LLM.Provider,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.LLM.MaxRetries,
		InitialDelay: cfg.LLM.RetryDelay,
	}

	return &Pipeline{
		extractor: signal.NewExtractor(cfg.Groups),
		estimator: benefit.NewEstimator(cfg),
		generator: notify.NewGenerator(cfg.Policy, client, retryOpts),
	}, nil
}

// NewWithGenerator injects a prebuilt generator, used by tests.
func NewWithGenerator(cfg *config.Config, gen *notify.Generator) *Pipeline {
	return &Pipeline{
		extractor: signal.NewExtractor(cfg.Groups),
		estimator: benefit.NewEstimator(cfg),
		generator: gen,
	}
}

// Recommend processes one client end to end. The returned recommendation
// always carries exactly one notification text, possibly the fallback.
// An input error (empty transactions, invalid profile) aborts only this
// client's run.
func (p *Pipeline) Recommend(ctx context.Context, profile model.ClientProfile, transactions []model.Transaction, transfers []model.Transfer) (*model.Recommendation, error) {
	if err := profile.Validate(); err != nil {
		return nil, common.NewClientError(profile.ClientCode, fmt.Errorf("%w: %v", common.ErrMissingProfileField, err))
	}

	signals, err := p.extractor.Extract(profile, transactions, transfers)
	if err != nil {
		return nil, common.NewClientError(profile.ClientCode, err)
	}

	scored, err := p.estimator.ScoreAll(&signals)
	if err != nil {
		// Scoring only fails on invalid configuration, which Validate
		// should have caught at startup.
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	selection := benefit.Select(scored)
	notification := p.generator.Generate(ctx, profile, selection, &signals)

	best := selection.Best()
	slog.Info("client recommendation ready",
		"client_code", profile.ClientCode,
		"product", best.Product,
		"benefit", best.Benefit,
		"utility", best.Utility,
		"policy_status", notification.PolicyStatus,
		"fallback", notification.Fallback)

	return &model.Recommendation{
		ClientCode:   profile.ClientCode,
		Selection:    selection,
		Notification: notification,
	}, nil
}

// EstimateBenefits returns the per-product benefit detail for one client,
// sorted descending by benefit. Used for the audit export, not decisioning.
func (p *Pipeline) EstimateBenefits(profile model.ClientProfile, transactions []model.Transaction, transfers []model.Transfer) ([]model.ProductBenefit, error) {
	signals, err := p.extractor.Extract(profile, transactions, transfers)
	if err != nil {
		return nil, common.NewClientError(profile.ClientCode, err)
	}

	benefits := p.estimator.EstimateAll(&signals)
	sortBenefitsDescending(benefits)
	return benefits, nil
}
