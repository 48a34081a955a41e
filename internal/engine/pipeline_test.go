package engine

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almasov/nudge/internal/common"
	"github.com/almasov/nudge/internal/config"
	"github.com/almasov/nudge/internal/model"
	"github.com/almasov/nudge/internal/notify"
)

func testConfig(t *testing.T, overrides map[string]any) *config.Config {
	t.Helper()
	v := viper.New()
	for key, value := range overrides {
		v.Set(key, value)
	}
	cfg, err := config.Load(v)
	require.NoError(t, err)
	return cfg
}

func templatePipeline(t *testing.T, cfg *config.Config) *Pipeline {
	t.Helper()
	gen := notify.NewGenerator(cfg.Policy, nil, common.RetryOptions{
		MaxAttempts:  1,
		InitialDelay: time.Millisecond,
	})
	return NewWithGenerator(cfg, gen)
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

// travelClient is a taxi-heavy history whose travel spend totals exactly
// 100 000 KZT, so the travel card's cashback comes out to 4 000 KZT.
func travelClient() ClientData {
	return ClientData{
		Profile: model.ClientProfile{
			ClientCode: "CL-001",
			Name:       "Айгерим",
			Status:     "Зарплатный клиент",
			City:       "Алматы",
		},
		Transactions: []model.Transaction{
			{Date: day(1), Category: "Такси", Amount: 6850, Currency: "KZT"},
			{Date: day(3), Category: "Такси", Amount: 6850, Currency: "KZT"},
			{Date: day(8), Category: "Такси", Amount: 6850, Currency: "KZT"},
			{Date: day(12), Category: "Такси", Amount: 6850, Currency: "KZT"},
			{Date: day(5), Category: "Путешествия", Amount: 36300, Currency: "KZT"},
			{Date: day(15), Category: "Путешествия", Amount: 36300, Currency: "KZT"},
			{Date: day(20), Category: "Продукты питания", Amount: 5000, Currency: "KZT"},
		},
		Transfers: []model.Transfer{
			{Date: day(1), Type: "salary_in", Direction: model.DirectionIn, Amount: 300000, Currency: "KZT"},
		},
	}
}

func TestRecommend_TravelScenario(t *testing.T) {
	cfg := testConfig(t, map[string]any{"scoring.travel_card.max_value": 4000.0})
	pipeline := templatePipeline(t, cfg)
	client := travelClient()

	rec, err := pipeline.Recommend(context.Background(), client.Profile, client.Transactions, client.Transfers)
	require.NoError(t, err)

	best := rec.Selection.Best()
	require.NotNil(t, best)
	assert.Equal(t, model.ProductTravelCard, best.Product)
	assert.InDelta(t, 4000.0, best.Benefit, 1e-9)
	assert.Greater(t, best.Utility, 90.0)

	require.Len(t, rec.Selection.Products, 10)
	for _, p := range rec.Selection.Products {
		if p.Benefit == 0 {
			assert.Zero(t, p.Utility, "product %s has zero benefit but nonzero utility", p.Product)
		}
	}

	assert.Equal(t, "CL-001", rec.Notification.ClientCode)
	assert.Equal(t, model.ProductTravelCard, rec.Notification.Product)
	assert.Equal(t, model.PolicyOK, rec.Notification.PolicyStatus)
	assert.False(t, rec.Notification.Fallback)
	assert.Contains(t, rec.Notification.Text, "Айгерим")
	assert.Contains(t, rec.Notification.Text, "27 400 ₸")
	assert.Contains(t, rec.Notification.Text, "4 000 ₸")
}

func TestRecommend_InputErrors(t *testing.T) {
	cfg := testConfig(t, nil)
	pipeline := templatePipeline(t, cfg)

	t.Run("empty transactions", func(t *testing.T) {
		profile := model.ClientProfile{ClientCode: "CL-002", Name: "Рамазан"}

		_, err := pipeline.Recommend(context.Background(), profile, nil, nil)
		require.Error(t, err)
		assert.True(t, common.IsInputError(err))
		assert.ErrorIs(t, err, common.ErrNoTransactions)
	})

	t.Run("missing client code", func(t *testing.T) {
		client := travelClient()
		client.Profile.ClientCode = ""

		_, err := pipeline.Recommend(context.Background(), client.Profile, client.Transactions, client.Transfers)
		require.Error(t, err)
		assert.True(t, common.IsInputError(err))
		assert.ErrorIs(t, err, common.ErrMissingProfileField)
	})
}

func TestRecommend_Deterministic(t *testing.T) {
	cfg := testConfig(t, nil)
	pipeline := templatePipeline(t, cfg)
	client := travelClient()

	first, err := pipeline.Recommend(context.Background(), client.Profile, client.Transactions, client.Transfers)
	require.NoError(t, err)
	second, err := pipeline.Recommend(context.Background(), client.Profile, client.Transactions, client.Transfers)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEstimateBenefits(t *testing.T) {
	cfg := testConfig(t, nil)
	pipeline := templatePipeline(t, cfg)
	client := travelClient()

	benefits, err := pipeline.EstimateBenefits(client.Profile, client.Transactions, client.Transfers)
	require.NoError(t, err)
	require.Len(t, benefits, 10)

	for i := 1; i < len(benefits); i++ {
		assert.GreaterOrEqual(t, benefits[i-1].Benefit, benefits[i].Benefit,
			"benefits must be sorted descending")
	}
	for _, b := range benefits {
		assert.GreaterOrEqual(t, b.Benefit, 0.0)
	}
}

func TestRunBatch(t *testing.T) {
	cfg := testConfig(t, nil)
	pipeline := templatePipeline(t, cfg)

	valid := travelClient()
	second := travelClient()
	second.Profile.ClientCode = "CL-003"
	broken := ClientData{
		Profile: model.ClientProfile{ClientCode: "CL-002", Name: "Болат"},
	}
	clients := []ClientData{valid, broken, second}

	var progressed int
	result := pipeline.RunBatch(context.Background(), clients, 4, func() { progressed++ })

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "CL-001", result.Recommendations[0].ClientCode)
	assert.Equal(t, "CL-003", result.Recommendations[1].ClientCode)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "CL-002", result.Failures[0].ClientCode)
	assert.ErrorIs(t, result.Failures[0].Err, common.ErrNoTransactions)

	assert.Equal(t, 3, progressed)
}

func TestRunBatch_Empty(t *testing.T) {
	cfg := testConfig(t, nil)
	pipeline := templatePipeline(t, cfg)

	result := pipeline.RunBatch(context.Background(), nil, 4, nil)
	assert.Empty(t, result.Recommendations)
	assert.Empty(t, result.Failures)
}

func TestNew(t *testing.T) {
	t.Run("template provider needs no backend", func(t *testing.T) {
		cfg := testConfig(t, nil)
		pipeline, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, pipeline)
	})

	t.Run("backend provider without key fails", func(t *testing.T) {
		cfg := testConfig(t, map[string]any{"llm.provider": "anthropic"})
		_, err := New(cfg)
		require.Error(t, err)
	})
}
