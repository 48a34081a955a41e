package benefit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almasov/nudge/internal/model"
)

func TestSelect_OrdersByUtility(t *testing.T) {
	scored := []model.ScoredProduct{
		{Product: model.ProductGoldBars, Benefit: 100, Utility: 10},
		{Product: model.ProductTravelCard, Benefit: 4000, Utility: 80},
		{Product: model.ProductCreditCard, Benefit: 9000, Utility: 40},
	}

	ranked := Select(scored)

	require.Len(t, ranked.Products, 3)
	assert.Equal(t, model.ProductTravelCard, ranked.Products[0].Product)
	assert.Equal(t, model.ProductCreditCard, ranked.Products[1].Product)
	assert.Equal(t, model.ProductGoldBars, ranked.Products[2].Product)
	assert.Equal(t, model.ProductTravelCard, ranked.Best().Product)
}

func TestSelect_TieBreaks(t *testing.T) {
	t.Run("equal utility falls through to benefit", func(t *testing.T) {
		ranked := Select([]model.ScoredProduct{
			{Product: model.ProductInvestments, Benefit: 1000, Utility: 50},
			{Product: model.ProductFXExchange, Benefit: 3000, Utility: 50},
		})
		assert.Equal(t, model.ProductFXExchange, ranked.Best().Product)
	})

	t.Run("equal utility and benefit falls through to catalog priority", func(t *testing.T) {
		ranked := Select([]model.ScoredProduct{
			{Product: model.ProductGoldBars, Benefit: 1000, Utility: 50},
			{Product: model.ProductPremiumCard, Benefit: 1000, Utility: 50},
			{Product: model.ProductCashLoan, Benefit: 1000, Utility: 50},
		})
		assert.Equal(t, model.ProductPremiumCard, ranked.Best().Product)
		assert.Equal(t, model.ProductCashLoan, ranked.Products[1].Product)
		assert.Equal(t, model.ProductGoldBars, ranked.Products[2].Product)
	})
}

func TestSelect_InputOrderIrrelevant(t *testing.T) {
	a := []model.ScoredProduct{
		{Product: model.ProductTravelCard, Benefit: 100, Utility: 20},
		{Product: model.ProductGoldBars, Benefit: 100, Utility: 20},
		{Product: model.ProductCreditCard, Benefit: 500, Utility: 20},
	}
	b := []model.ScoredProduct{a[2], a[0], a[1]}

	assert.Equal(t, Select(a), Select(b))
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	scored := []model.ScoredProduct{
		{Product: model.ProductGoldBars, Utility: 1},
		{Product: model.ProductTravelCard, Utility: 99},
	}

	_ = Select(scored)

	assert.Equal(t, model.ProductGoldBars, scored[0].Product)
}

func TestSelect_Empty(t *testing.T) {
	ranked := Select(nil)
	assert.Nil(t, ranked.Best())
}
