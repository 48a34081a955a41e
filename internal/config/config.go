// Package config loads and validates the business-tunable parameter surface.
// All rate constants, caps, weights and thresholds live here; nothing in the
// estimation code hard-codes a business number.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/almasov/nudge/internal/common"
	"github.com/almasov/nudge/internal/model"
)

// Config is the full run configuration resolved once at startup.
type Config struct {
	Params  Params             `mapstructure:"params"`
	Scoring map[string]Scoring `mapstructure:"scoring"`
	Groups  Groups             `mapstructure:"categories"`
	Policy  Policy             `mapstructure:"policy"`
	LLM     LLM                `mapstructure:"llm"`
}

// Params holds the per-product rate constants, KZT where monetary.
type Params struct {
	TravelCashbackRate        float64 `mapstructure:"travel_cashback_rate"`
	PremiumBaseRate           float64 `mapstructure:"premium_base_rate"`
	PremiumHighBalanceRate    float64 `mapstructure:"premium_high_balance_rate"`
	PremiumHighBalanceMin     float64 `mapstructure:"premium_high_balance_min"`
	PremiumCategoryBonus      float64 `mapstructure:"premium_category_bonus"`
	FXSavingPerTx             float64 `mapstructure:"fx_saving_per_tx"`
	FXScale                   float64 `mapstructure:"fx_scale"`
	CashGapThreshold          float64 `mapstructure:"cash_gap_threshold"`
	SavingsRatioGate          float64 `mapstructure:"savings_ratio_gate"`
	StabilityGate             float64 `mapstructure:"stability_gate"`
	FreeBalanceFactor         float64 `mapstructure:"free_balance_factor"`
	DepositMulticurrAnnual    float64 `mapstructure:"deposit_multicurr_rate_annual"`
	DepositSavingsAnnual      float64 `mapstructure:"deposit_saving_frozen_rate_annual"`
	DepositAccumulativeAnnual float64 `mapstructure:"deposit_accumulative_rate_annual"`
	AccumulativeFactor        float64 `mapstructure:"accumulative_factor"`
	InvestmentAnnual          float64 `mapstructure:"investment_expected_annual_return"`
	InvestmentFactor          float64 `mapstructure:"investment_factor"`
	GoldAnnual                float64 `mapstructure:"gold_expected_annual_return"`
	GoldFactor                float64 `mapstructure:"gold_factor"`
	CashbackCap               float64 `mapstructure:"cashback_cap"`
}

// Scoring holds one product's utility weights. Alpha weights the benefit
// score, Beta the usage score; MaxValue normalizes benefit to [0,100].
type Scoring struct {
	MaxValue float64 `mapstructure:"max_value"`
	Alpha    float64 `mapstructure:"alpha"`
	Beta     float64 `mapstructure:"beta"`
}

// Groups names the category sets used for group spends. Unknown transaction
// categories simply fall outside every group.
type Groups struct {
	Travel  []string `mapstructure:"travel"`
	Premium []string `mapstructure:"premium"`
	Online  []string `mapstructure:"online"`
}

// Policy holds the red-policy thresholds for notification text.
type Policy struct {
	MaxLength       int `mapstructure:"max_length"`
	MaxExclamations int `mapstructure:"max_exclamations"`
	RepairMinLength int `mapstructure:"repair_min_length"`
	RepairMaxLength int `mapstructure:"repair_max_length"`
}

// LLM selects and tunes the generative text backend. Provider "template"
// disables the backend entirely.
type LLM struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SetDefaults installs the reference business parameters. Deployments
// override them via the config file or NUDGE_* environment variables.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("params.travel_cashback_rate", 0.04)
	v.SetDefault("params.premium_base_rate", 0.02)
	v.SetDefault("params.premium_high_balance_rate", 0.03)
	v.SetDefault("params.premium_high_balance_min", 1_000_000.0)
	v.SetDefault("params.premium_category_bonus", 0.04)
	v.SetDefault("params.fx_saving_per_tx", 500.0)
	v.SetDefault("params.fx_scale", 1.0)
	v.SetDefault("params.cash_gap_threshold", 0.5)
	v.SetDefault("params.savings_ratio_gate", 0.5)
	v.SetDefault("params.stability_gate", 0.6)
	v.SetDefault("params.free_balance_factor", 0.9)
	v.SetDefault("params.deposit_multicurr_rate_annual", 0.03)
	v.SetDefault("params.deposit_saving_frozen_rate_annual", 0.06)
	v.SetDefault("params.deposit_accumulative_rate_annual", 0.04)
	v.SetDefault("params.accumulative_factor", 0.4)
	v.SetDefault("params.investment_expected_annual_return", 0.05)
	v.SetDefault("params.investment_factor", 0.6)
	v.SetDefault("params.gold_expected_annual_return", 0.02)
	v.SetDefault("params.gold_factor", 0.3)
	v.SetDefault("params.cashback_cap", 200_000.0)

	for _, p := range model.Catalog {
		v.SetDefault(fmt.Sprintf("scoring.%s.max_value", p), 50_000.0)
		v.SetDefault(fmt.Sprintf("scoring.%s.alpha", p), 0.6)
		v.SetDefault(fmt.Sprintf("scoring.%s.beta", p), 0.4)
	}

	v.SetDefault("categories.travel", []string{"Путешествия", "Отели", "Такси"})
	v.SetDefault("categories.premium", []string{"Ювелирные украшения", "Косметика и Парфюмерия", "Кафе и рестораны"})
	v.SetDefault("categories.online", []string{"Едим дома", "Смотрим дома", "Играем дома"})

	v.SetDefault("policy.max_length", 220)
	v.SetDefault("policy.max_exclamations", 1)
	v.SetDefault("policy.repair_min_length", 180)
	v.SetDefault("policy.repair_max_length", 220)

	v.SetDefault("llm.provider", "template")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 300)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", time.Second)
	v.SetDefault("llm.timeout", 30*time.Second)
}

// Load resolves the configuration from viper and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProductScoring returns the scoring weights for a catalog product.
func (c *Config) ProductScoring(p model.ProductID) Scoring {
	return c.Scoring[string(p)]
}

// Validate fails fast on configuration that would poison the whole run.
// No value is silently defaulted here; Load installs defaults before
// unmarshaling, so a missing value at this point is an operator mistake.
func (c *Config) Validate() error {
	for _, p := range model.Catalog {
		s, ok := c.Scoring[string(p)]
		if !ok {
			return fmt.Errorf("%w: no scoring weights for product %s", common.ErrMissingConfig, p)
		}
		if s.MaxValue <= 0 {
			return fmt.Errorf("%w: scoring.%s.max_value must be positive, got %.2f", common.ErrInvalidConfig, p, s.MaxValue)
		}
		if s.Alpha < 0 || s.Beta < 0 {
			return fmt.Errorf("%w: scoring.%s alpha/beta must be non-negative", common.ErrInvalidConfig, p)
		}
	}

	if len(c.Groups.Travel) == 0 || len(c.Groups.Premium) == 0 || len(c.Groups.Online) == 0 {
		return fmt.Errorf("%w: every category group must name at least one category", common.ErrMissingConfig)
	}

	if c.Params.CashbackCap <= 0 {
		return fmt.Errorf("%w: params.cashback_cap must be positive", common.ErrInvalidConfig)
	}

	if c.Policy.MaxLength <= 0 {
		return fmt.Errorf("%w: policy.max_length must be positive", common.ErrInvalidConfig)
	}
	if c.Policy.RepairMaxLength > c.Policy.MaxLength {
		return fmt.Errorf("%w: policy.repair_max_length exceeds policy.max_length", common.ErrInvalidConfig)
	}

	switch c.LLM.Provider {
	case "template", "anthropic", "openai":
	default:
		return fmt.Errorf("%w: unsupported llm provider %q", common.ErrInvalidConfig, c.LLM.Provider)
	}

	return nil
}
