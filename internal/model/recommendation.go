package model

// ProductBenefit is one product's estimated monetary benefit, KZT per period.
// Benefit is never negative.
type ProductBenefit struct {
	Product ProductID
	Benefit float64
}

// ScoredProduct pairs a benefit with its bounded utility score.
// Utility is 0 whenever Benefit is 0, by construction.
type ScoredProduct struct {
	Product ProductID
	Benefit float64
	Utility float64
}

// RankedSelection is the full product ranking for one client, descending by
// utility, ties broken by benefit and then catalog priority.
type RankedSelection struct {
	Products []ScoredProduct
}

// Best returns the top-ranked product. Nil on an empty selection.
func (r *RankedSelection) Best() *ScoredProduct {
	if len(r.Products) == 0 {
		return nil
	}
	return &r.Products[0]
}

// PolicyStatus records the outcome of red-policy validation for a notification.
type PolicyStatus string

// Policy statuses. A non-ok status on a delivered notification means the text
// was accepted after truncation and the violation is recorded for audit.
const (
	PolicyOK              PolicyStatus = "ok"
	PolicyAllCaps         PolicyStatus = "ALL_CAPS"
	PolicyTooManyExclaims PolicyStatus = "TOO_MANY_EXCLAMATIONS"
	PolicyTooLong         PolicyStatus = "TOO_LONG"
)

// PushNotification is the final per-client output of the pipeline.
type PushNotification struct {
	ClientCode   string
	Product      ProductID
	Text         string
	PolicyStatus PolicyStatus
	Fallback     bool // true when the text is the deterministic generation-failure placeholder
}

// Recommendation bundles everything the pipeline produced for one client.
type Recommendation struct {
	ClientCode   string
	Selection    RankedSelection
	Notification PushNotification
}
