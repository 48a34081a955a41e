package model

// ProductID identifies one of the fixed catalog products.
type ProductID string

// The full product catalog. Declaration order doubles as the deterministic
// tie-break priority when utility and benefit are both equal.
const (
	ProductTravelCard           ProductID = "travel_card"
	ProductPremiumCard          ProductID = "premium_card"
	ProductCreditCard           ProductID = "credit_card"
	ProductFXExchange           ProductID = "fx_exchange"
	ProductCashLoan             ProductID = "cash_loan"
	ProductMulticurrencyDeposit ProductID = "deposit_multicurrency"
	ProductSavingsDeposit       ProductID = "deposit_savings"
	ProductAccumulativeDeposit  ProductID = "deposit_accumulative"
	ProductInvestments          ProductID = "investments"
	ProductGoldBars             ProductID = "gold_bars"
)

// Catalog lists every product in priority order.
var Catalog = []ProductID{
	ProductTravelCard,
	ProductPremiumCard,
	ProductCreditCard,
	ProductFXExchange,
	ProductCashLoan,
	ProductMulticurrencyDeposit,
	ProductSavingsDeposit,
	ProductAccumulativeDeposit,
	ProductInvestments,
	ProductGoldBars,
}

var displayNames = map[ProductID]string{
	ProductTravelCard:           "Карта для путешествий",
	ProductPremiumCard:          "Премиальная карта",
	ProductCreditCard:           "Кредитная карта",
	ProductFXExchange:           "Обмен валют",
	ProductCashLoan:             "Кредит наличными",
	ProductMulticurrencyDeposit: "Депозит мультивалютный",
	ProductSavingsDeposit:       "Депозит сберегательный",
	ProductAccumulativeDeposit:  "Депозит накопительный",
	ProductInvestments:          "Инвестиции (брокерский счёт)",
	ProductGoldBars:             "Золотые слитки",
}

var catalogPriority = func() map[ProductID]int {
	m := make(map[ProductID]int, len(Catalog))
	for i, p := range Catalog {
		m[p] = i
	}
	return m
}()

// DisplayName returns the customer-facing product name.
func (p ProductID) DisplayName() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return string(p)
}

// Priority returns the product's position in the catalog. Lower wins ties.
func (p ProductID) Priority() int {
	if pri, ok := catalogPriority[p]; ok {
		return pri
	}
	return len(Catalog)
}

// Valid reports whether the ID names a catalog product.
func (p ProductID) Valid() bool {
	_, ok := catalogPriority[p]
	return ok
}
