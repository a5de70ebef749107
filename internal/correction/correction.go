package correction

import (
	"fmt"
	"log/slog"
	"math"

	"estimmo/pkg/contracts/domain"
)

// Config holds the tuned constants of the correction heuristic. The bands
// and clamps are empirical: they are the published contract of the
// correction, not derived quantities.
type Config struct {
	// NationalPriceM2 is the fallback reference when a postal code
	// resolves to no known zone.
	NationalPriceM2 float64 `yaml:"national_price_m2"`

	// Expected-price adjustments by property shape.
	HouseFactor        float64 `yaml:"house_factor"`
	LargeHouseSurface  float64 `yaml:"large_house_surface"`
	LargeHouseDiscount float64 `yaml:"large_house_discount"`
	SmallHouseSurface  float64 `yaml:"small_house_surface"`
	SmallHousePremium  float64 `yaml:"small_house_premium"`
	LargeLandArea      float64 `yaml:"large_land_area"`
	LargeLandBonus     float64 `yaml:"large_land_bonus"`

	// Deviation bands on prediction/expected and the blend weight kept on
	// the model side inside each band.
	CoherentLow   float64 `yaml:"coherent_low"`
	CoherentHigh  float64 `yaml:"coherent_high"`
	OverHigh      float64 `yaml:"over_high"`
	CoherentBlend float64 `yaml:"coherent_blend"`
	OverBlend     float64 `yaml:"over_blend"`
	FarOverBlend  float64 `yaml:"far_over_blend"`
	UnderBlend    float64 `yaml:"under_blend"`

	// Absolute safety clamps as multiples of the expected price.
	ClampMin        float64 `yaml:"clamp_min"`
	ClampMax        float64 `yaml:"clamp_max"`
	HouseClampBonus float64 `yaml:"house_clamp_bonus"`
}

// DefaultConfig returns the published correction constants.
func DefaultConfig() Config {
	return Config{
		NationalPriceM2:    2800,
		HouseFactor:        1.08,
		LargeHouseSurface:  150,
		LargeHouseDiscount: 0.95,
		SmallHouseSurface:  80,
		SmallHousePremium:  1.05,
		LargeLandArea:      200,
		LargeLandBonus:     1.02,
		CoherentLow:        0.7,
		CoherentHigh:       1.3,
		OverHigh:           1.8,
		CoherentBlend:      0.85,
		OverBlend:          0.5,
		FarOverBlend:       0.3,
		UnderBlend:         0.7,
		ClampMin:           0.4,
		ClampMax:           1.8,
		HouseClampBonus:    1.1,
	}
}

// Validate checks the configuration for invalid values
func (c Config) Validate() error {
	if c.NationalPriceM2 <= 0 {
		return fmt.Errorf("national price must be positive: %f", c.NationalPriceM2)
	}
	if !(0 < c.CoherentLow && c.CoherentLow < c.CoherentHigh && c.CoherentHigh < c.OverHigh) {
		return fmt.Errorf("deviation bands must be ordered: %f < %f < %f", c.CoherentLow, c.CoherentHigh, c.OverHigh)
	}
	for _, blend := range []float64{c.CoherentBlend, c.OverBlend, c.FarOverBlend, c.UnderBlend} {
		if blend < 0 || blend > 1 {
			return fmt.Errorf("blend weights must lie in [0, 1]: %f", blend)
		}
	}
	if !(0 < c.ClampMin && c.ClampMin < c.ClampMax) {
		return fmt.Errorf("invalid clamp range: [%f, %f]", c.ClampMin, c.ClampMax)
	}
	return nil
}

// Result carries the outcome of one correction.
type Result struct {
	Adjusted    float64
	Factor      float64
	Expected    float64
	ReferenceM2 float64
	KnownZone   bool
}

// Corrector post-processes raw ensemble predictions against the reference
// price table. It is deterministic and stateless: the same inputs always
// produce the same adjustment, and nothing is retained between calls.
type Corrector struct {
	config Config
	refs   *ReferenceTable
	logger *slog.Logger
}

// NewCorrector creates a corrector over the given reference table.
func NewCorrector(config Config, refs *ReferenceTable, logger *slog.Logger) (*Corrector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid correction config: %w", err)
	}
	if refs == nil {
		return nil, fmt.Errorf("reference table is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Corrector{config: config, refs: refs, logger: logger}, nil
}

// Apply corrects a raw prediction for the given request. The returned
// factor is always finite and the adjusted price always lies inside the
// configured clamp band around the expected zone price.
func (c *Corrector) Apply(raw float64, req domain.EstimateRequest) Result {
	refM2, known := c.refs.PricePerM2(req.PostalCode)
	expected := c.expectedPrice(refM2, req)

	adjusted := c.blend(raw, expected)

	// Safety clamp as absolute bounds around the expected price.
	clampMax := c.config.ClampMax
	if req.PropertyType == domain.PropertyHouse {
		clampMax *= c.config.HouseClampBonus
	}
	adjusted = math.Max(expected*c.config.ClampMin, math.Min(expected*clampMax, adjusted))

	factor := 1.0
	if raw > 0 {
		factor = adjusted / raw
	}

	return Result{
		Adjusted:    adjusted,
		Factor:      factor,
		Expected:    expected,
		ReferenceM2: refM2,
		KnownZone:   known,
	}
}

// expectedPrice computes the zone-reference price for the property.
func (c *Corrector) expectedPrice(refM2 float64, req domain.EstimateRequest) float64 {
	expected := refM2 * req.Surface

	if req.PropertyType == domain.PropertyHouse {
		factor := c.config.HouseFactor
		if req.Surface > c.config.LargeHouseSurface {
			factor *= c.config.LargeHouseDiscount
		} else if req.Surface < c.config.SmallHouseSurface {
			factor *= c.config.SmallHousePremium
		}
		if req.Land > c.config.LargeLandArea {
			factor *= c.config.LargeLandBonus
		}
		expected *= factor
	}

	return expected
}

// blend pulls the raw prediction toward the expected price, harder the
// further it strays.
func (c *Corrector) blend(raw, expected float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return expected
	}

	ratio := raw / expected
	switch {
	case ratio >= c.config.CoherentLow && ratio <= c.config.CoherentHigh:
		return raw*c.config.CoherentBlend + expected*(1-c.config.CoherentBlend)
	case ratio > c.config.CoherentHigh && ratio <= c.config.OverHigh:
		return raw*c.config.OverBlend + expected*(1-c.config.OverBlend)
	case ratio > c.config.OverHigh:
		return raw*c.config.FarOverBlend + expected*(1-c.config.FarOverBlend)
	default:
		return raw*c.config.UnderBlend + expected*(1-c.config.UnderBlend)
	}
}
