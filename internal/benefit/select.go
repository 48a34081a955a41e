package benefit

import (
	"sort"

	"github.com/almasov/nudge/internal/model"
)

// Select ranks scored products descending by utility. Ties break by
// descending benefit, then by catalog priority, so the ordering never depends
// on input order or map iteration.
func Select(scored []model.ScoredProduct) model.RankedSelection {
	ranked := make([]model.ScoredProduct, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Utility != ranked[j].Utility {
			return ranked[i].Utility > ranked[j].Utility
		}
		if ranked[i].Benefit != ranked[j].Benefit {
			return ranked[i].Benefit > ranked[j].Benefit
		}
		return ranked[i].Product.Priority() < ranked[j].Product.Priority()
	})

	return model.RankedSelection{Products: ranked}
}
