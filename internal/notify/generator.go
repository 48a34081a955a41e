// Package notify turns a ranked selection into policy-compliant push text.
//
// The generator runs a small state machine per request: draft, validate, and
// on violation issue exactly one repair pass before accepting the result. A
// failed generative backend never fails the caller; the client gets the
// deterministic fallback text instead.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/almasov/nudge/internal/common"
	"github.com/almasov/nudge/internal/config"
	"github.com/almasov/nudge/internal/currency"
	"github.com/almasov/nudge/internal/llm"
	"github.com/almasov/nudge/internal/model"
	"github.com/almasov/nudge/internal/policy"
)

// taxiCategory matters for the travel template figure.
const taxiCategory = "Такси"

// restaurantCategory matters for the premium template figure.
const restaurantCategory = "Кафе и рестораны"

// Generator produces the final notification text for a selected product.
type Generator struct {
	validator *policy.Validator
	client    llm.Client // nil in template mode
	retryOpts common.RetryOptions
	repairMin int
	repairMax int
}

// NewGenerator builds a generator. A nil client selects template mode; the
// backend decision is made once by the caller at startup, not per call.
func NewGenerator(cfg config.Policy, client llm.Client, retryOpts common.RetryOptions) *Generator {
	return &Generator{
		validator: policy.NewValidator(cfg),
		client:    client,
		retryOpts: retryOpts,
		repairMin: cfg.RepairMinLength,
		repairMax: cfg.RepairMaxLength,
	}
}

// Generate always returns a deliverable notification. Backend failures and
// policy violations are resolved locally (fallback text, repair, truncation)
// and surfaced via the notification's PolicyStatus and Fallback fields.
func (g *Generator) Generate(ctx context.Context, profile model.ClientProfile, selection model.RankedSelection, signals *model.SignalVector) model.PushNotification {
	best := selection.Best()
	if best == nil {
		return g.fallback(profile, "")
	}

	facts := buildFacts(profile, *best, signals)

	var text string
	if g.client == nil {
		text = renderTemplate(best.Product, facts)
	} else {
		var err error
		text, err = g.draftWithBackend(ctx, profile, *best, facts)
		if err != nil {
			common.LogError(err, "push generation failed, using fallback", common.Fields{
				"client_code": profile.ClientCode,
				"product":     best.Product,
			})
			return g.fallback(profile, best.Product)
		}
	}

	if text == "" {
		return g.fallback(profile, best.Product)
	}

	return g.finalize(profile, best.Product, text, false)
}

// draftWithBackend generates text via the configured backend with a bounded
// retry budget, then runs the single repair pass on a policy violation.
func (g *Generator) draftWithBackend(ctx context.Context, profile model.ClientProfile, best model.ScoredProduct, facts map[string]string) (string, error) {
	req := llm.PushRequest{
		ClientName: profile.Name,
		Product:    best.Product.DisplayName(),
		Facts:      facts,
	}

	var draft string
	err := common.WithRetry(ctx, func() error {
		text, genErr := g.client.GeneratePush(ctx, req)
		if genErr != nil {
			return genErr
		}
		draft = text
		return nil
	}, g.retryOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}

	if g.validator.Validate(draft) == model.PolicyOK {
		return draft, nil
	}

	// One repair request, accepted unconditionally. Truncation in finalize
	// is the last safety net, so a bad repair cannot loop.
	repaired, err := g.client.RepairPush(ctx, draft, g.repairMin, g.repairMax)
	if err != nil || repaired == "" {
		slog.Warn("repair request failed, keeping original draft",
			"client_code", profile.ClientCode, "error", err)
		return draft, nil
	}
	return repaired, nil
}

// finalize records the final validation verdict and hard-truncates overlong
// text so the output never exceeds the ceiling.
func (g *Generator) finalize(profile model.ClientProfile, product model.ProductID, text string, isFallback bool) model.PushNotification {
	status := g.validator.Validate(text)
	if status != model.PolicyOK {
		slog.Warn("notification violates policy, delivering truncated text",
			"client_code", profile.ClientCode,
			"product", product,
			"violation", status)
	}
	return model.PushNotification{
		ClientCode:   profile.ClientCode,
		Product:      product,
		Text:         g.validator.Truncate(text),
		PolicyStatus: status,
		Fallback:     isFallback,
	}
}

// fallback is the deterministic placeholder used when no text could be
// generated. It identifies the client and still invites them into the app.
func (g *Generator) fallback(profile model.ClientProfile, product model.ProductID) model.PushNotification {
	name := profile.Name
	if name == "" {
		name = "Клиент " + profile.ClientCode
	}

	text := fmt.Sprintf("%s, у нас есть предложение для вас. Посмотреть в приложении.", name)
	if product != "" {
		text = fmt.Sprintf("%s, у нас есть предложение для вас: %s. Посмотреть в приложении.", name, product.DisplayName())
	}

	return g.finalize(profile, product, text, true)
}

// buildFacts assembles the currency-formatted figures the templates and the
// generative backend may mention. Only present, meaningful figures are
// included; an absent key drops the clause that references it.
func buildFacts(profile model.ClientProfile, best model.ScoredProduct, signals *model.SignalVector) map[string]string {
	name := profile.Name
	if name == "" {
		name = "Клиент " + profile.ClientCode
	}
	facts := map[string]string{factName: name}

	if best.Benefit > 0 {
		facts[factBenefit] = currency.FormatKZT(best.Benefit)
	}

	if signals == nil {
		return facts
	}

	if taxi := signals.Spend(taxiCategory); taxi > 0 {
		facts[factTaxiSpend] = currency.FormatKZT(taxi)
	}
	if rest := signals.Spend(restaurantCategory); rest > 0 {
		facts[factRestSpend] = currency.FormatKZT(rest)
	}
	if signals.FXActivity > 0 {
		facts[factFXCount] = fmt.Sprintf("%d", signals.FXActivity)
	}

	for i, cat := range signals.TopCategories {
		switch i {
		case 0:
			facts[factTopCat1] = cat
		case 1:
			facts[factTopCat2] = cat
		case 2:
			facts[factTopCat3] = cat
		}
	}

	return facts
}
