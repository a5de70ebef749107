package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"estimmo/pkg/contracts/domain"
)

// Raw DVF column names. The extracts ship with these exact headers.
const (
	colDate    = "Date mutation"
	colPrice   = "Valeur fonciere"
	colPostal  = "Code postal"
	colType    = "Type local"
	colSurface = "Surface reelle bati"
	colRooms   = "Nombre pieces principales"
	colLand    = "Surface terrain"
)

var requiredColumns = []string{colDate, colPrice, colPostal, colType, colSurface, colRooms}

// DropReason classifies why a raw row was excluded from the cleaned output.
type DropReason string

const (
	DropNone           DropReason = ""
	DropMalformedRow   DropReason = "malformed_row"
	DropMissingPrice   DropReason = "missing_price"
	DropMissingSurface DropReason = "missing_surface"
	DropMissingRooms   DropReason = "missing_rooms"
	DropPriceRange     DropReason = "price_out_of_range"
	DropSurfaceRange   DropReason = "surface_out_of_range"
	DropRoomsRange     DropReason = "rooms_out_of_range"
	DropBadPostal      DropReason = "invalid_postal_code"
	DropUnknownPrefix  DropReason = "unknown_postal_prefix"
	DropBadDate        DropReason = "invalid_sale_date"
	DropPropertyType   DropReason = "unsupported_property_type"
)

// RowParser maps raw DVF records to transactions using the header row.
type RowParser struct {
	idx map[string]int
}

// NewRowParser builds a parser from the CSV header. A missing required
// column is a configuration error and aborts the run.
func NewRowParser(header []string) (*RowParser, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("raw file is missing required columns: %s", strings.Join(missing, ", "))
	}

	return &RowParser{idx: idx}, nil
}

// Parse converts one raw record into a transaction. The returned DropReason
// is DropNone when the row is usable; range filters are applied later by the
// cleaner so parsing stays a pure format concern.
func (p *RowParser) Parse(record []string) (domain.Transaction, DropReason) {
	var tx domain.Transaction

	price, ok := parseFrenchFloat(p.field(record, colPrice))
	if !ok || price <= 0 {
		return tx, DropMissingPrice
	}
	tx.Price = price

	surface, ok := parseFrenchFloat(p.field(record, colSurface))
	if !ok || surface <= 0 {
		return tx, DropMissingSurface
	}
	tx.Surface = surface

	rooms, ok := parseFrenchFloat(p.field(record, colRooms))
	if !ok || rooms <= 0 {
		return tx, DropMissingRooms
	}
	tx.Rooms = int(rooms)

	// Land surface is optional; absent means none.
	if land, ok := parseFrenchFloat(p.field(record, colLand)); ok && land > 0 {
		tx.Land = land
	}

	postal, ok := RepairPostalCode(p.field(record, colPostal))
	if !ok {
		return tx, DropBadPostal
	}
	tx.PostalCode = postal
	tx.PostalPrefix = postal[:3]
	tx.Department = postal[:2]

	propertyType, ok := parsePropertyType(p.field(record, colType))
	if !ok {
		return tx, DropPropertyType
	}
	tx.PropertyType = propertyType

	saleDate, ok := parseSaleDate(p.field(record, colDate))
	if !ok {
		return tx, DropBadDate
	}
	tx.SaleDate = saleDate
	tx.Year = saleDate.Year()
	tx.Month = int(saleDate.Month())
	tx.Season = domain.SeasonOf(saleDate.Month())
	tx.Recent = saleDate.Year() >= domain.RecentYearThreshold

	return tx, DropNone
}

func (p *RowParser) field(record []string, name string) string {
	i := p.idx[name]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// RepairPostalCode standardizes a French postal code to exactly 5 digits.
// Codes with at least 4 digits are right-padded with zeros and truncated;
// shorter or non-numeric values are unrepairable.
//
//	"75001"  -> "75001"
//	"7500"   -> "75000"
//	"750"    -> rejected
//	"abc"    -> rejected
func RepairPostalCode(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	s := digits.String()
	if len(s) < 4 {
		return "", false
	}
	if len(s) < 5 {
		s = s + strings.Repeat("0", 5-len(s))
	}
	return s[:5], true
}

// parseFrenchFloat parses a number that may use a decimal comma.
func parseFrenchFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parsePropertyType maps the raw "Type local" values onto the supported enum.
func parsePropertyType(raw string) (domain.PropertyType, bool) {
	switch strings.ToLower(raw) {
	case "appartement", "apartment":
		return domain.PropertyApartment, true
	case "maison", "house":
		return domain.PropertyHouse, true
	default:
		return "", false
	}
}

// parseSaleDate parses the DVF mutation date (dd/mm/yyyy, with a yyyy-mm-dd
// fallback for re-cleaned files).
func parseSaleDate(raw string) (time.Time, bool) {
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
