package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKZT(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		amount float64
	}{
		{name: "fraction kept", amount: 12345.5, want: "12 345,50 ₸"},
		{name: "zero", amount: 0, want: "0 ₸"},
		{name: "million", amount: 1000000, want: "1 000 000 ₸"},
		{name: "no separator under a thousand", amount: 999.99, want: "999,99 ₸"},
		{name: "exact thousand", amount: 1000, want: "1 000 ₸"},
		{name: "rounding up crosses the whole", amount: 4999.999, want: "5 000 ₸"},
		{name: "small fraction", amount: 0.05, want: "0,05 ₸"},
		{name: "negative", amount: -27400.5, want: "-27 400,50 ₸"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatKZT(tt.amount))
		})
	}
}
