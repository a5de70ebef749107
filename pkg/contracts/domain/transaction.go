package domain

import (
	"time"
)

// PropertyType classifies the kind of property a transaction covers.
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
)

// Valid reports whether the property type is one of the supported kinds.
func (p PropertyType) Valid() bool {
	return p == PropertyApartment || p == PropertyHouse
}

// Season buckets a sale month into one of the four seasons.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// SeasonOf returns the season for a calendar month (1-12).
func SeasonOf(month time.Month) Season {
	switch month {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// Transaction is a single cleaned land-transaction row from a DVF extract.
// Rows are immutable once cleaned; there is no identity beyond position.
type Transaction struct {
	Price        float64      `json:"price" csv:"price"`
	Surface      float64      `json:"surface" csv:"surface"`
	Rooms        int          `json:"rooms" csv:"rooms"`
	Land         float64      `json:"land" csv:"land"`
	SaleDate     time.Time    `json:"sale_date" csv:"sale_date"`
	PropertyType PropertyType `json:"property_type" csv:"property_type"`
	PostalCode   string       `json:"postal_code" csv:"postal_code"`

	// Derived at cleaning time.
	PostalPrefix string `json:"postal_prefix" csv:"postal_prefix"`
	Department   string `json:"department" csv:"department"`
	Year         int    `json:"year" csv:"year"`
	Month        int    `json:"month" csv:"month"`
	Season       Season `json:"season" csv:"season"`
	Recent       bool   `json:"recent" csv:"recent"`
}

// PricePerM2 returns the sale price per square metre of built surface.
func (t Transaction) PricePerM2() float64 {
	if t.Surface <= 0 {
		return 0
	}
	return t.Price / t.Surface
}

// RecentYearThreshold is the first sale year counted as "recent".
const RecentYearThreshold = 2023
