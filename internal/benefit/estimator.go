// Package benefit estimates per-product monetary benefit, scores it into a
// bounded utility, and ranks the catalog for one client.
//
// The ten products share one generic estimator driven by a table of
// productSpec records (rate math, gate, cap, affinity) instead of ten
// copy-pasted functions.
package benefit

import (
	"log/slog"

	"github.com/almasov/nudge/internal/config"
	"github.com/almasov/nudge/internal/model"
)

// productSpec describes how one product turns signals into money.
//
// raw computes the uncapped benefit and must read only the signals the
// product's contract declares. cap returns the configured ceiling applied as
// min(raw, cap). usage returns the product's usage/affinity signal in [0,100].
type productSpec struct {
	product model.ProductID
	raw     func(s *model.SignalVector, c *config.Config) float64
	cap     func(c *config.Config) float64
	usage   func(s *model.SignalVector) float64
}

// Estimator evaluates the whole catalog against one signal vector.
type Estimator struct {
	cfg *config.Config
}

// NewEstimator builds an estimator bound to validated configuration.
func NewEstimator(cfg *config.Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// EstimateAll returns every product's benefit in catalog order.
// Benefit is exactly 0 when a product's gate is unmet; it is never negative.
func (e *Estimator) EstimateAll(s *model.SignalVector) []model.ProductBenefit {
	benefits := make([]model.ProductBenefit, 0, len(catalogSpecs))
	for _, spec := range catalogSpecs {
		benefits = append(benefits, model.ProductBenefit{
			Product: spec.product,
			Benefit: e.estimate(spec, s),
		})
	}
	return benefits
}

// ScoreAll estimates and scores every product in catalog order.
func (e *Estimator) ScoreAll(s *model.SignalVector) ([]model.ScoredProduct, error) {
	scored := make([]model.ScoredProduct, 0, len(catalogSpecs))
	for _, spec := range catalogSpecs {
		sc := e.cfg.ProductScoring(spec.product)
		b := e.estimate(spec, s)

		utility, err := Score(b, spec.usage(s), sc.MaxValue, sc.Alpha, sc.Beta)
		if err != nil {
			return nil, err
		}

		scored = append(scored, model.ScoredProduct{
			Product: spec.product,
			Benefit: b,
			Utility: utility,
		})
	}
	return scored, nil
}

func (e *Estimator) estimate(spec productSpec, s *model.SignalVector) float64 {
	raw := spec.raw(s, e.cfg)
	if raw <= 0 {
		// Not an error: an unmet gate or absent signal contributes a zero
		// benefit and keeps the ranking well-defined.
		slog.Debug("benefit gate unmet", "product", spec.product)
		return 0
	}

	if cap := spec.cap(e.cfg); raw > cap {
		return cap
	}
	return raw
}
