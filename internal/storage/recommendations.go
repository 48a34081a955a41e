package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/almasov/nudge/internal/model"
)

// SaveRecommendation writes one client's recommendation with its full
// ten-product ranking in a single transaction.
func (s *SQLiteStorage) SaveRecommendation(ctx context.Context, rec *model.Recommendation) error {
	if rec == nil {
		return fmt.Errorf("recommendation is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	fallback := 0
	if rec.Notification.Fallback {
		fallback = 1
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO recommendations (client_code, product, push_text, policy_status, fallback)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ClientCode,
		string(rec.Notification.Product),
		rec.Notification.Text,
		string(rec.Notification.PolicyStatus),
		fallback,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}

	recID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get recommendation id: %w", err)
	}

	for rank, sp := range rec.Selection.Products {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO benefit_details (recommendation_id, product, benefit, utility, rank)
			 VALUES (?, ?, ?, ?, ?)`,
			recID, string(sp.Product), sp.Benefit, sp.Utility, rank+1,
		); err != nil {
			return fmt.Errorf("failed to insert benefit detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recommendation: %w", err)
	}
	return nil
}

// LatestRecommendation returns the most recent stored recommendation for a
// client, or nil when none exists.
func (s *SQLiteStorage) LatestRecommendation(ctx context.Context, clientCode string) (*model.Recommendation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, client_code, product, push_text, policy_status, fallback
		 FROM recommendations WHERE client_code = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		clientCode,
	)

	var id int64
	var fallback int
	rec := &model.Recommendation{}
	err := row.Scan(&id, &rec.ClientCode,
		(*string)(&rec.Notification.Product),
		&rec.Notification.Text,
		(*string)(&rec.Notification.PolicyStatus),
		&fallback,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query recommendation: %w", err)
	}
	rec.Notification.ClientCode = rec.ClientCode
	rec.Notification.Fallback = fallback == 1

	rows, err := s.db.QueryContext(ctx,
		`SELECT product, benefit, utility FROM benefit_details
		 WHERE recommendation_id = ? ORDER BY rank ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query benefit details: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sp model.ScoredProduct
		if err := rows.Scan((*string)(&sp.Product), &sp.Benefit, &sp.Utility); err != nil {
			return nil, fmt.Errorf("failed to scan benefit detail: %w", err)
		}
		rec.Selection.Products = append(rec.Selection.Products, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read benefit details: %w", err)
	}

	return rec, nil
}
