package benefit

import (
	"fmt"
	"math"

	"github.com/almasov/nudge/internal/common"
)

// Score blends a monetary benefit with a usage/affinity signal into a
// utility score. A non-positive benefit always yields utility 0, whatever the
// usage signal says: we never recommend a product the client gains nothing from.
//
// benefitScore = min(100, 100*benefit/maxValue); usageScore = clamp(usage, 0, 100);
// utility = alpha*benefitScore + beta*usageScore. Weights are configuration,
// chosen per product so the practical range stays within [0,100].
func Score(benefit, usage, maxValue, alpha, beta float64) (float64, error) {
	if maxValue <= 0 {
		return 0, fmt.Errorf("%w: max_value must be positive, got %.2f", common.ErrInvalidConfig, maxValue)
	}

	if benefit <= 0 {
		return 0, nil
	}

	benefitScore := math.Min(100, 100*benefit/maxValue)
	usageScore := math.Min(math.Max(usage, 0), 100)

	return alpha*benefitScore + beta*usageScore, nil
}
