package correction

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// reference_prices.csv maps each accepted 3-digit postal prefix to a
// representative market price per m². Computed once offline from the
// cleaned transaction history; never updated at request time.
//
//go:embed referencedata/reference_prices.csv
var referenceCSV []byte

// parisPricesM2 carries arrondissement-level reference prices for Paris,
// finer than the 3-digit table.
var parisPricesM2 = map[string]float64{
	"75001": 12000, "75002": 10500, "75003": 9800, "75004": 11500,
	"75005": 10200, "75006": 12500, "75007": 12000, "75008": 13000,
	"75009": 9200, "75010": 8500, "75011": 8800, "75012": 8000,
	"75013": 7500, "75014": 8500, "75015": 8800, "75016": 11000,
	"75017": 9200, "75018": 7500, "75019": 7000, "75020": 8000,
}

// ReferenceTable resolves a postal code to a reference price per m².
// Lookup is hierarchical: exact 5-digit code (Paris arrondissements), then
// 3-digit prefix, then 2-digit department average, then the national default.
type ReferenceTable struct {
	byPrefix     map[string]float64
	byDepartment map[string]float64
	national     float64
}

// LoadReferenceTable parses the embedded reference price table.
func LoadReferenceTable(nationalDefault float64) (*ReferenceTable, error) {
	reader := csv.NewReader(bytes.NewReader(referenceCSV))

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse reference prices: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("reference price table is empty")
	}

	table := &ReferenceTable{
		byPrefix:     make(map[string]float64, len(records)-1),
		byDepartment: make(map[string]float64),
		national:     nationalDefault,
	}

	deptSums := make(map[string]float64)
	deptCounts := make(map[string]int)

	for i, record := range records[1:] {
		if len(record) != 2 {
			return nil, fmt.Errorf("reference prices row %d: expected 2 fields, got %d", i+2, len(record))
		}
		prefix := strings.TrimSpace(record[0])
		if len(prefix) != 3 {
			return nil, fmt.Errorf("reference prices row %d: invalid prefix %q", i+2, prefix)
		}
		price, err := strconv.ParseFloat(record[1], 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("reference prices row %d: invalid price %q", i+2, record[1])
		}

		table.byPrefix[prefix] = price
		dept := prefix[:2]
		deptSums[dept] += price
		deptCounts[dept]++
	}

	for dept, sum := range deptSums {
		table.byDepartment[dept] = sum / float64(deptCounts[dept])
	}

	return table, nil
}

// PricePerM2 returns the reference price for a 5-digit postal code and
// whether the code resolved to anything finer than the national default.
func (t *ReferenceTable) PricePerM2(postalCode string) (float64, bool) {
	if price, ok := parisPricesM2[postalCode]; ok {
		return price, true
	}
	if len(postalCode) >= 3 {
		if price, ok := t.byPrefix[postalCode[:3]]; ok {
			return price, true
		}
	}
	if len(postalCode) >= 2 {
		if price, ok := t.byDepartment[postalCode[:2]]; ok {
			return price, true
		}
	}
	return t.national, false
}

// Prefixes returns the accepted prefix set, the membership contract for the
// cleaning stage.
func (t *ReferenceTable) Prefixes() map[string]bool {
	prefixes := make(map[string]bool, len(t.byPrefix))
	for prefix := range t.byPrefix {
		prefixes[prefix] = true
	}
	return prefixes
}

// Len returns the number of distinct prefixes in the table.
func (t *ReferenceTable) Len() int {
	return len(t.byPrefix)
}

// FormatZone renders a human-readable zone label for a postal code,
// e.g. "Paris 5ème" or "Département 69".
func FormatZone(postalCode string) string {
	if len(postalCode) != 5 {
		return "France"
	}

	if strings.HasPrefix(postalCode, "75") {
		arr := strings.TrimLeft(postalCode[3:], "0")
		switch arr {
		case "":
			return "Paris"
		case "1":
			return "Paris 1er"
		default:
			return fmt.Sprintf("Paris %sème", arr)
		}
	}

	return "Département " + postalCode[:2]
}

// MarketPosition labels a price per m² relative to its zone: the thresholds
// are coarse per-zone bands used only for display caveats.
func MarketPosition(pricePerM2 float64, department string) string {
	var low, high, mid float64
	switch {
	case department == "75":
		low, high, mid = 7000, 13000, 9200
	case department == "92" || department == "93" || department == "94":
		low, high, mid = 3500, 7000, 5000
	case department == "77" || department == "78" || department == "91" || department == "95":
		low, high, mid = 2500, 4500, 3200
	default:
		low, high, mid = 2000, 5000, 3000
	}

	switch {
	case pricePerM2 > high:
		return "very high for the area"
	case pricePerM2 > mid*1.2:
		return "upper market"
	case pricePerM2 < low:
		return "very low for the area"
	case pricePerM2 < mid*0.8:
		return "below market average"
	default:
		return "in line with the local market"
	}
}
