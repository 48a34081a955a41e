// Package model defines the data types flowing through the recommendation
// pipeline. Every type is produced once by its owning component and consumed
// read-only downstream.
package model

import (
	"fmt"
	"time"
)

// Transaction represents a single card transaction from the client's history.
type Transaction struct {
	Date     time.Time
	Category string
	Amount   float64
	Currency string
}

// Validate rejects records that would corrupt downstream aggregates.
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	if t.Amount < 0 {
		return fmt.Errorf("transaction amount must be non-negative, got %.2f", t.Amount)
	}
	return nil
}

// Direction indicates whether a transfer moves money toward or away from the client.
type Direction string

// Transfer directions.
const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Transfer represents a single account transfer (salary, p2p, FX and so on).
type Transfer struct {
	Date      time.Time
	Type      string
	Direction Direction
	Amount    float64
	Currency  string
}

// Validate rejects transfers with an unknown direction or negative amount.
func (t *Transfer) Validate() error {
	if t.Direction != DirectionIn && t.Direction != DirectionOut {
		return fmt.Errorf("transfer direction must be %q or %q, got %q", DirectionIn, DirectionOut, t.Direction)
	}
	if t.Amount < 0 {
		return fmt.Errorf("transfer amount must be non-negative, got %.2f", t.Amount)
	}
	return nil
}
