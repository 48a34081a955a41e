package model

import "fmt"

// ClientProfile holds the externally supplied client attributes for one run.
// It is immutable once constructed.
type ClientProfile struct {
	ClientCode        string
	Name              string
	Status            string
	City              string
	AvgMonthlyBalance float64
	FCMToken          string // optional; required only for push delivery
}

// Validate checks the fields the pipeline cannot work without.
func (p *ClientProfile) Validate() error {
	if p.ClientCode == "" {
		return fmt.Errorf("client_code is required")
	}
	if p.AvgMonthlyBalance < 0 {
		return fmt.Errorf("avg_monthly_balance must be non-negative, got %.2f", p.AvgMonthlyBalance)
	}
	return nil
}
