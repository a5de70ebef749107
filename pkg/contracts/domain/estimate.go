package domain

// EstimateRequest carries the property characteristics submitted through the
// estimation form. It is transient: it exists only for the duration of one
// form submission and is never persisted.
type EstimateRequest struct {
	Surface      float64      `json:"surface" validate:"required,gte=8,lte=1000"`
	Rooms        int          `json:"rooms" validate:"required,gte=1,lte=15"`
	Land         float64      `json:"land" validate:"gte=0,lte=10000"`
	PropertyType PropertyType `json:"property_type" validate:"required,oneof=apartment house"`
	PostalCode   string       `json:"postal_code" validate:"required,len=5,numeric"`
	Recent       bool         `json:"recent"`
}

// EstimateResult is the full response for one estimation: the corrected
// price, the raw ensemble output, the applied correction, and the display
// metrics the form renders around the headline number.
type EstimateResult struct {
	Price            float64 `json:"price"`
	PricePerM2       float64 `json:"price_per_m2"`
	PriceLow         float64 `json:"price_low"`
	PriceHigh        float64 `json:"price_high"`
	RawPrice         float64 `json:"raw_price"`
	CorrectionFactor float64 `json:"correction_factor"`
	ReferencePriceM2 float64 `json:"reference_price_m2"`
	Zone             string  `json:"zone"`
	MarketPosition   string  `json:"market_position"`
	ModelR2          float64 `json:"model_r2"`
	OutOfDomain      bool    `json:"out_of_domain"`
	Caveats          []string `json:"caveats,omitempty"`
}

// EstimateRangeMargin is the half-width of the displayed confidence range,
// as a fraction of the corrected price.
const EstimateRangeMargin = 0.20
