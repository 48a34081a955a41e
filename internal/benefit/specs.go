package benefit

import (
	"math"

	"github.com/almasov/nudge/internal/config"
	"github.com/almasov/nudge/internal/model"
)

// catalogSpecs holds one record per product, in catalog order.
var catalogSpecs = []productSpec{
	{
		product: model.ProductTravelCard,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			if s.TravelSpend <= 0 {
				return 0
			}
			return c.Params.TravelCashbackRate * s.TravelSpend
		},
		cap:   func(c *config.Config) float64 { return c.Params.CashbackCap },
		usage: func(s *model.SignalVector) float64 { return 100 * s.TravelShare },
	},
	{
		product: model.ProductPremiumCard,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			base := c.Params.PremiumBaseRate
			if s.AvgBalance >= c.Params.PremiumHighBalanceMin {
				base = c.Params.PremiumHighBalanceRate
			}
			return base*s.TotalSpend + c.Params.PremiumCategoryBonus*s.PremiumSpend
		},
		cap:   func(c *config.Config) float64 { return c.Params.CashbackCap },
		usage: func(s *model.SignalVector) float64 { return 100 * s.PremiumShare },
	},
	{
		product: model.ProductCreditCard,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			if s.TotalSpend <= 0 {
				return 0
			}
			share := topOnlineUnionSpend(s, c.Groups.Online) / s.TotalSpend
			return share * c.ProductScoring(model.ProductCreditCard).MaxValue
		},
		cap: func(c *config.Config) float64 {
			return c.ProductScoring(model.ProductCreditCard).MaxValue
		},
		usage: func(s *model.SignalVector) float64 { return 100 * s.OnlineShare },
	},
	{
		product: model.ProductFXExchange,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			if s.FXActivity <= 0 {
				return 0
			}
			return c.Params.FXSavingPerTx * float64(s.FXActivity) * c.Params.FXScale
		},
		cap: func(c *config.Config) float64 {
			return c.ProductScoring(model.ProductFXExchange).MaxValue
		},
		usage: func(s *model.SignalVector) float64 { return 100 * s.FXShare },
	},
	{
		product: model.ProductCashLoan,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			return cashGapSeverity(s.CashGapRatio, c.Params.CashGapThreshold) *
				c.ProductScoring(model.ProductCashLoan).MaxValue
		},
		cap: func(c *config.Config) float64 {
			return c.ProductScoring(model.ProductCashLoan).MaxValue
		},
		usage: func(s *model.SignalVector) float64 {
			return 100 * math.Min(math.Max(s.CashGapRatio, 0), 1)
		},
	},
	{
		product: model.ProductMulticurrencyDeposit,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			return freeBalance(s, c) * monthly(c.Params.DepositMulticurrAnnual)
		},
		cap: func(c *config.Config) float64 {
			return c.ProductScoring(model.ProductMulticurrencyDeposit).MaxValue
		},
		usage: func(s *model.SignalVector) float64 { return 100 * s.SavingsRatio },
	},
	{
		product: model.ProductSavingsDeposit,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			if s.SavingsRatio <= c.Params.SavingsRatioGate || s.SpendingStability <= c.Params.StabilityGate {
				return 0
			}
			return s.AvgBalance * monthly(c.Params.DepositSavingsAnnual)
		},
		cap: func(c *config.Config) float64 {
			return c.ProductScoring(model.ProductSavingsDeposit).MaxValue
		},
		usage: func(s *model.SignalVector) float64 {
			return 100 * s.SavingsRatio * s.SpendingStability
		},
	},
	{
		product: model.ProductAccumulativeDeposit,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			return s.AvgBalance * monthly(c.Params.DepositAccumulativeAnnual) * c.Params.AccumulativeFactor
		},
		cap: func(c *config.Config) float64 {
			return c.ProductScoring(model.ProductAccumulativeDeposit).MaxValue
		},
		usage: func(s *model.SignalVector) float64 { return 100 * s.SavingsRatio },
	},
	{
		product: model.ProductInvestments,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			return freeBalance(s, c) * monthly(c.Params.InvestmentAnnual) * c.Params.InvestmentFactor
		},
		cap: func(c *config.Config) float64 {
			return c.ProductScoring(model.ProductInvestments).MaxValue
		},
		usage: func(s *model.SignalVector) float64 { return 100 * s.SavingsRatio },
	},
	{
		product: model.ProductGoldBars,
		raw: func(s *model.SignalVector, c *config.Config) float64 {
			return freeBalance(s, c) * monthly(c.Params.GoldAnnual) * c.Params.GoldFactor
		},
		cap: func(c *config.Config) float64 {
			return c.ProductScoring(model.ProductGoldBars).MaxValue
		},
		usage: func(s *model.SignalVector) float64 { return 100 * s.SavingsRatio },
	},
}

func monthly(annualRate float64) float64 {
	return annualRate / 12
}

// freeBalance is the portion of the average balance considered placeable,
// leaving the configured locked buffer untouched.
func freeBalance(s *model.SignalVector, c *config.Config) float64 {
	if s.AvgBalance <= 0 {
		return 0
	}
	return s.AvgBalance * c.Params.FreeBalanceFactor
}

// cashGapSeverity is 0 up to the gap threshold and scales linearly to 1.0 as
// the gap approaches 1.0.
func cashGapSeverity(gap, threshold float64) float64 {
	if gap <= threshold || threshold >= 1 {
		return 0
	}
	severity := (gap - threshold) / (1 - threshold)
	if severity > 1 {
		return 1
	}
	return severity
}

// topOnlineUnionSpend sums spend over the union of the top-count categories
// and the online group, counting overlapping categories once.
func topOnlineUnionSpend(s *model.SignalVector, online []string) float64 {
	top := make(map[string]struct{}, len(s.TopCategories))
	for _, c := range s.TopCategories {
		top[c] = struct{}{}
	}

	total := s.TopCategorySpend()
	for _, c := range online {
		if _, ok := top[c]; ok {
			continue
		}
		top[c] = struct{}{}
		total += s.CategorySpend[c]
	}
	return total
}
