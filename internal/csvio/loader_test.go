package csvio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almasov/nudge/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadClients(t *testing.T) {
	path := writeFile(t, "clients.csv",
		"client_code,name,status,city,avg_monthly_balance_KZT,fcm_token\n"+
			"CL-001,Айгерим,Зарплатный клиент,Алматы,250000,tok-1\n"+
			"CL-002,Рамазан,Стандартный клиент,Астана,0,\n")

	clients, err := LoadClients(path)
	require.NoError(t, err)
	require.Len(t, clients, 2)

	aigerim := clients["CL-001"]
	assert.Equal(t, "Айгерим", aigerim.Name)
	assert.Equal(t, "Алматы", aigerim.City)
	assert.InDelta(t, 250000.0, aigerim.AvgMonthlyBalance, 1e-9)
	assert.Equal(t, "tok-1", aigerim.FCMToken)

	assert.Empty(t, clients["CL-002"].FCMToken)
}

func TestLoadClients_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadClients(filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
	})

	t.Run("missing required column", func(t *testing.T) {
		path := writeFile(t, "clients.csv", "client_code,name\nCL-001,Айгерим\n")
		_, err := LoadClients(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "avg_monthly_balance_KZT")
	})

	t.Run("bad balance", func(t *testing.T) {
		path := writeFile(t, "clients.csv",
			"client_code,avg_monthly_balance_KZT\nCL-001,not-a-number\n")
		_, err := LoadClients(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		path := writeFile(t, "clients.csv",
			"client_code,avg_monthly_balance_KZT\nCL-001,-5\n")
		_, err := LoadClients(path)
		require.Error(t, err)
	})
}

func TestLoadTransactions(t *testing.T) {
	path := writeFile(t, "transactions.csv",
		"client_code,date,category,amount,currency\n"+
			"CL-001,2025-06-01,Такси,6850,KZT\n"+
			"CL-001,2025-06-03 14:30:00,Путешествия,36300,KZT\n"+
			"CL-002,2025-06-05,Продукты питания,5000,KZT\n")

	byClient, err := LoadTransactions(path)
	require.NoError(t, err)
	require.Len(t, byClient["CL-001"], 2)
	require.Len(t, byClient["CL-002"], 1)

	first := byClient["CL-001"][0]
	assert.Equal(t, "Такси", first.Category)
	assert.InDelta(t, 6850.0, first.Amount, 1e-9)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), first.Date)

	assert.Equal(t, 14, byClient["CL-001"][1].Date.Hour())
}

func TestLoadTransactions_BadDate(t *testing.T) {
	path := writeFile(t, "transactions.csv",
		"client_code,date,category,amount\nCL-001,06/01/2025,Такси,100\n")
	_, err := LoadTransactions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable date")
}

func TestLoadTransfers(t *testing.T) {
	path := writeFile(t, "transfers.csv",
		"client_code,date,transfer_type,direction,amount,currency\n"+
			"CL-001,2025-06-01,salary_in,IN,300000,KZT\n"+
			"CL-001,2025-06-02,fx_buy,out,50000,KZT\n"+
			"CL-001,2025-06-03,p2p,sideways,100,KZT\n")

	byClient, err := LoadTransfers(path)
	require.NoError(t, err)

	// The unknown-direction row is skipped, not fatal.
	transfers := byClient["CL-001"]
	require.Len(t, transfers, 2)
	assert.Equal(t, model.DirectionIn, transfers[0].Direction)
	assert.Equal(t, "fx_buy", transfers[1].Type)
}

func TestWriteRecommendations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	recs := []model.Recommendation{
		{
			ClientCode: "CL-001",
			Notification: model.PushNotification{
				ClientCode: "CL-001",
				Product:    model.ProductTravelCard,
				Text:       "Айгерим, вам подойдёт карта для путешествий.",
			},
		},
	}

	require.NoError(t, WriteRecommendations(path, recs))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"client_code", "product", "push_notification"}, rows[0])
	assert.Equal(t, "CL-001", rows[1][0])
	assert.Equal(t, "Карта для путешествий", rows[1][1])
	assert.Contains(t, rows[1][2], "Айгерим")
}

func TestWriteBenefitDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benefits.csv")
	benefits := []model.ProductBenefit{
		{Product: model.ProductTravelCard, Benefit: 4000},
		{Product: model.ProductPremiumCard, Benefit: 2100.5},
	}

	require.NoError(t, WriteBenefitDetails(path, benefits))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"product", "benefit", "benefit_formatted"}, rows[0])
	assert.Equal(t, []string{"Карта для путешествий", "4000.00", "4 000 ₸"}, rows[1])
	assert.Equal(t, []string{"Премиальная карта", "2100.50", "2 100,50 ₸"}, rows[2])
}
