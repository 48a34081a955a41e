package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almasov/nudge/internal/model"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRecommendation(clientCode string) *model.Recommendation {
	return &model.Recommendation{
		ClientCode: clientCode,
		Selection: model.RankedSelection{Products: []model.ScoredProduct{
			{Product: model.ProductTravelCard, Benefit: 4000, Utility: 98.1},
			{Product: model.ProductCreditCard, Benefit: 50000, Utility: 60},
			{Product: model.ProductPremiumCard, Benefit: 2100, Utility: 2.52},
		}},
		Notification: model.PushNotification{
			ClientCode:   clientCode,
			Product:      model.ProductTravelCard,
			Text:         "Айгерим, вам подойдёт карта для путешествий.",
			PolicyStatus: model.PolicyOK,
		},
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("")
		require.Error(t, err)
	})

	t.Run("creates missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "audit.db")
		s, err := NewSQLiteStorage(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	})
}

func TestMigrateIdempotent(t *testing.T) {
	s := testStorage(t)
	// A second run sees the schema already at the expected version.
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSaveAndLoadRecommendation(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	rec := sampleRecommendation("CL-001")
	require.NoError(t, s.SaveRecommendation(ctx, rec))

	got, err := s.LatestRecommendation(ctx, "CL-001")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "CL-001", got.ClientCode)
	assert.Equal(t, model.ProductTravelCard, got.Notification.Product)
	assert.Equal(t, rec.Notification.Text, got.Notification.Text)
	assert.Equal(t, model.PolicyOK, got.Notification.PolicyStatus)
	assert.False(t, got.Notification.Fallback)

	require.Len(t, got.Selection.Products, 3)
	assert.Equal(t, model.ProductTravelCard, got.Selection.Products[0].Product)
	assert.InDelta(t, 4000.0, got.Selection.Products[0].Benefit, 1e-9)
	assert.Equal(t, model.ProductCreditCard, got.Selection.Products[1].Product)
}

func TestLatestRecommendationPicksNewest(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	first := sampleRecommendation("CL-001")
	require.NoError(t, s.SaveRecommendation(ctx, first))

	second := sampleRecommendation("CL-001")
	second.Notification.Product = model.ProductPremiumCard
	second.Notification.Text = "Айгерим, вам подойдёт премиальная карта."
	require.NoError(t, s.SaveRecommendation(ctx, second))

	got, err := s.LatestRecommendation(ctx, "CL-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.ProductPremiumCard, got.Notification.Product)
}

func TestLatestRecommendation_Missing(t *testing.T) {
	s := testStorage(t)

	got, err := s.LatestRecommendation(context.Background(), "CL-404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveRecommendation_Nil(t *testing.T) {
	s := testStorage(t)
	require.Error(t, s.SaveRecommendation(context.Background(), nil))
}
