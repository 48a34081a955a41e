// Package policy enforces the red-policy style rules on push notification
// text: no all-caps shouting, at most one exclamation mark, bounded length.
package policy

import (
	"strings"
	"unicode"

	"github.com/almasov/nudge/internal/config"
	"github.com/almasov/nudge/internal/model"
)

// Validator checks notification text against the configured thresholds.
// Validation is idempotent: a text that passes once passes again.
type Validator struct {
	maxLength       int
	maxExclamations int
}

// NewValidator builds a validator from the policy configuration.
func NewValidator(cfg config.Policy) *Validator {
	return &Validator{
		maxLength:       cfg.MaxLength,
		maxExclamations: cfg.MaxExclamations,
	}
}

// Validate returns PolicyOK or the first violated rule.
func (v *Validator) Validate(text string) model.PolicyStatus {
	if isAllCaps(text) {
		return model.PolicyAllCaps
	}
	if strings.Count(text, "!") > v.maxExclamations {
		return model.PolicyTooManyExclaims
	}
	if len([]rune(text)) > v.maxLength {
		return model.PolicyTooLong
	}
	return model.PolicyOK
}

// Truncate hard-caps the text at the length ceiling, rune-safe, and trims
// trailing whitespace. A truncated text always re-validates as not TOO_LONG.
func (v *Validator) Truncate(text string) string {
	runes := []rune(text)
	if len(runes) > v.maxLength {
		runes = runes[:v.maxLength]
	}
	return strings.TrimRightFunc(string(runes), unicode.IsSpace)
}

// isAllCaps reports whether the text contains letters and every letter is
// already upper-case. Digits and punctuation are ignored.
func isAllCaps(text string) bool {
	var letters strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters.WriteRune(r)
		}
	}
	if letters.Len() == 0 {
		return false
	}
	s := letters.String()
	return s == strings.ToUpper(s) && s != strings.ToLower(s)
}
