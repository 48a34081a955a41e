package model

// SignalVector is the fixed-shape feature set derived once per client from the
// raw transaction and transfer history. It is never mutated after extraction.
//
// Share- and ratio-valued fields are bounded to [0,1] except
// InflowOutflowRatio and SavingsPropensity, which are raw ratios and may
// exceed 1.
type SignalVector struct {
	TotalSpend    float64
	CategorySpend map[string]float64

	TravelSpend  float64
	PremiumSpend float64
	OnlineSpend  float64
	TravelShare  float64
	PremiumShare float64
	OnlineShare  float64

	// SpendingStability is 1 minus the coefficient of variation of daily
	// spend totals, clamped to [0,1]. Exactly 0 when fewer than two
	// distinct spending days exist.
	SpendingStability float64

	FXActivity int
	FXShare    float64

	InflowOutflowRatio float64
	CashGapRatio       float64

	SavingsPropensity float64
	// SavingsRatio = balance/(balance+spend), bounded to [0,1].
	SavingsRatio float64

	// TopCategories holds the three categories with the highest transaction
	// count (not spend amount), descending.
	TopCategories []string

	AvgBalance float64
}

// Spend returns the summed spend for a category, 0 when absent.
func (s *SignalVector) Spend(category string) float64 {
	return s.CategorySpend[category]
}

// TopCategorySpend sums spend across the top-count categories.
func (s *SignalVector) TopCategorySpend() float64 {
	var total float64
	for _, c := range s.TopCategories {
		total += s.CategorySpend[c]
	}
	return total
}
