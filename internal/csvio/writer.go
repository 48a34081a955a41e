package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/almasov/nudge/internal/currency"
	"github.com/almasov/nudge/internal/model"
)

// WriteRecommendations writes the per-client output: one row per client,
// `client_code, product, push_notification`. Currency figures live inside the
// notification text, never as raw CSV columns.
func WriteRecommendations(path string, recs []model.Recommendation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"client_code", "product", "push_notification"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range recs {
		row := []string{
			rec.ClientCode,
			rec.Notification.Product.DisplayName(),
			rec.Notification.Text,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row for client %s: %w", rec.ClientCode, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

// WriteBenefitDetails writes the audit export for one client: every product
// with its raw and formatted benefit, already sorted descending by benefit.
func WriteBenefitDetails(path string, benefits []model.ProductBenefit) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"product", "benefit", "benefit_formatted"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, b := range benefits {
		row := []string{
			b.Product.DisplayName(),
			strconv.FormatFloat(b.Benefit, 'f', 2, 64),
			currency.FormatKZT(b.Benefit),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row for product %s: %w", b.Product, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}
