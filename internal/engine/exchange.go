package engine

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/funko-battle/internal/errors"
)

// DefaultExchangeRates is the external value of one coin per unit
func DefaultExchangeRates() map[string]float64 {
	return map[string]float64{
		"btc": 0.0000001,
		"eth": 0.000001,
	}
}

// RateTable converts coins into external units at fixed rates
type RateTable struct {
	rates map[string]float64
}

// NewRateTable validates and normalizes a unit to rate map. Unit names are
// case insensitive.
func NewRateTable(rates map[string]float64) (*RateTable, error) {
	vb := errors.NewValidationBuilder()
	if len(rates) == 0 {
		vb.Field("rates", "must define at least one unit")
	}

	normalized := make(map[string]float64, len(rates))
	for unit, rate := range rates {
		key := normalizeUnit(unit)
		if key == "" {
			vb.Field("rates", "unit name must not be blank")
			continue
		}
		if rate <= 0 {
			vb.Fieldf("rates."+key, "rate must be positive, got %v", rate)
			continue
		}
		normalized[key] = rate
	}

	if err := vb.Build(); err != nil {
		return nil, err
	}

	return &RateTable{rates: normalized}, nil
}

// Rate returns the rate for unit
func (t *RateTable) Rate(unit string) (float64, error) {
	rate, ok := t.rates[normalizeUnit(unit)]
	if !ok {
		return 0, errors.InvalidArgumentf("unknown exchange unit %q", unit).
			WithMeta("supported_units", strings.Join(t.Units(), ","))
	}
	return rate, nil
}

// Convert returns amount coins expressed in unit. The product is a plain
// float64 multiplication with no rounding.
func (t *RateTable) Convert(amount int64, unit string) (float64, error) {
	if amount < 0 {
		return 0, errors.InvalidArgumentf("amount must not be negative, got %d", amount)
	}

	rate, err := t.Rate(unit)
	if err != nil {
		return 0, err
	}

	return float64(amount) * rate, nil
}

// Units lists the supported units in sorted order
func (t *RateTable) Units() []string {
	units := make([]string, 0, len(t.rates))
	for unit := range t.rates {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

// Rates returns a copy of the table
func (t *RateTable) Rates() map[string]float64 {
	out := make(map[string]float64, len(t.rates))
	for unit, rate := range t.rates {
		out[unit] = rate
	}
	return out
}

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}
