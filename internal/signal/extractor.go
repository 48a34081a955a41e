// Package signal derives the per-client feature vector from raw transaction
// and transfer history. Extraction is a pure function: same inputs, same
// vector, no side effects.
package signal

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/almasov/nudge/internal/common"
	"github.com/almasov/nudge/internal/config"
	"github.com/almasov/nudge/internal/model"
)

// fxMarker flags FX-related transfer types (fx_buy, fx_sell, FX_CONVERT...).
const fxMarker = "fx"

// topCategoryCount is how many top-by-count categories the vector carries.
const topCategoryCount = 3

// Extractor computes SignalVectors using externally configured category groups.
type Extractor struct {
	travel  map[string]struct{}
	premium map[string]struct{}
	online  map[string]struct{}
}

// NewExtractor builds an extractor from the configured category groups.
func NewExtractor(groups config.Groups) *Extractor {
	return &Extractor{
		travel:  toSet(groups.Travel),
		premium: toSet(groups.Premium),
		online:  toSet(groups.Online),
	}
}

// Extract computes the full signal vector for one client.
// Fails with common.ErrNoTransactions when the transaction history is empty:
// every spend share would have an undefined denominator.
func (e *Extractor) Extract(profile model.ClientProfile, transactions []model.Transaction, transfers []model.Transfer) (model.SignalVector, error) {
	if len(transactions) == 0 {
		return model.SignalVector{}, fmt.Errorf("client %s: %w", profile.ClientCode, common.ErrNoTransactions)
	}

	// All float sums accumulate in input order. Summing over a map would make
	// the low-order bits depend on iteration order between runs.
	var totalSpend, travelSpend, premiumSpend, onlineSpend float64
	categorySpend := make(map[string]float64)
	categoryCount := make(map[string]int)
	dailyTotals := make(map[string]float64)

	for _, t := range transactions {
		totalSpend += t.Amount
		categorySpend[t.Category] += t.Amount
		categoryCount[t.Category]++
		dailyTotals[t.Date.Format("2006-01-02")] += t.Amount

		if _, ok := e.travel[t.Category]; ok {
			travelSpend += t.Amount
		}
		if _, ok := e.premium[t.Category]; ok {
			premiumSpend += t.Amount
		}
		if _, ok := e.online[t.Category]; ok {
			onlineSpend += t.Amount
		}
	}

	var totalIn, totalOut float64
	var fxCount int
	for _, tr := range transfers {
		switch tr.Direction {
		case model.DirectionIn:
			totalIn += tr.Amount
		case model.DirectionOut:
			totalOut += tr.Amount
		}
		if strings.Contains(strings.ToLower(tr.Type), fxMarker) {
			fxCount++
		}
	}

	fxShare := 0.0
	if len(transfers) > 0 {
		fxShare = float64(fxCount) / float64(len(transfers))
	}

	balance := profile.AvgMonthlyBalance
	savingsRatio := 0.0
	if balance+totalSpend > 0 {
		savingsRatio = balance / (balance + totalSpend)
	}

	v := model.SignalVector{
		TotalSpend:        totalSpend,
		CategorySpend:     categorySpend,
		TravelSpend:       travelSpend,
		PremiumSpend:      premiumSpend,
		OnlineSpend:       onlineSpend,
		TravelShare:       share(travelSpend, totalSpend),
		PremiumShare:      share(premiumSpend, totalSpend),
		OnlineShare:       share(onlineSpend, totalSpend),
		SpendingStability: stability(dailyTotals),
		FXActivity:        fxCount,
		FXShare:           fxShare,
		// The +1 denominators below are epsilon guards against division by
		// zero, not tunable business constants.
		InflowOutflowRatio: totalIn / (totalOut + 1),
		CashGapRatio:       (totalOut - totalIn) / (totalIn + 1),
		SavingsPropensity:  balance / (totalSpend + 1),
		SavingsRatio:       savingsRatio,
		TopCategories:      topByCount(categoryCount),
		AvgBalance:         balance,
	}
	return v, nil
}

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total
}

// stability is 1 minus the coefficient of variation of daily spend totals,
// clamped to [0,1]. It degenerates to 0 on fewer than two distinct days or a
// zero mean rather than returning NaN.
func stability(dailyTotals map[string]float64) float64 {
	if len(dailyTotals) < 2 {
		return 0
	}

	// Feed the stats in a fixed day order so the result is reproducible.
	days := make([]string, 0, len(dailyTotals))
	for d := range dailyTotals {
		days = append(days, d)
	}
	sort.Strings(days)

	totals := make([]float64, 0, len(days))
	for _, d := range days {
		totals = append(totals, dailyTotals[d])
	}

	mean := stat.Mean(totals, nil)
	if mean <= 0 {
		return 0
	}

	s := 1 - stat.StdDev(totals, nil)/mean
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// topByCount returns the categories with the most transactions, descending.
// Count, not spend amount: a client with many small taxi rides is a taxi
// client even when groceries dominate the total. Ties break alphabetically
// so the result never depends on map iteration order.
func topByCount(categoryCount map[string]int) []string {
	categories := make([]string, 0, len(categoryCount))
	for c := range categoryCount {
		categories = append(categories, c)
	}

	sort.Slice(categories, func(i, j int) bool {
		if categoryCount[categories[i]] != categoryCount[categories[j]] {
			return categoryCount[categories[i]] > categoryCount[categories[j]]
		}
		return categories[i] < categories[j]
	})

	if len(categories) > topCategoryCount {
		categories = categories[:topCategoryCount]
	}
	return categories
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
