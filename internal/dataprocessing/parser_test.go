package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimmo/pkg/contracts/domain"
)

func TestRepairPostalCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"already_valid", "75001", "75001", true},
		{"four_digits_padded", "7500", "75000", true},
		{"float_formatted", "75001.0", "75001", true},
		{"with_spaces", " 69003 ", "69003", true},
		{"too_short", "750", "", false},
		{"letters_only", "abc", "", false},
		{"mixed", "cedex 13008", "13008", true},
		{"too_long_truncated", "750012", "75001", true},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RepairPostalCode(tt.input)
			if !tt.ok {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRowParserMissingColumn(t *testing.T) {
	_, err := NewRowParser([]string{"Date mutation", "Valeur fonciere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestParseRow(t *testing.T) {
	header := []string{"Date mutation", "Valeur fonciere", "Code postal", "Type local", "Surface reelle bati", "Nombre pieces principales", "Surface terrain"}
	parser, err := NewRowParser(header)
	require.NoError(t, err)

	tests := []struct {
		name   string
		record []string
		reason DropReason
		check  func(t *testing.T, tx domain.Transaction)
	}{
		{
			name:   "valid_apartment",
			record: []string{"15/06/2023", "250000,00", "75005", "Appartement", "62", "3", ""},
			reason: DropNone,
			check: func(t *testing.T, tx domain.Transaction) {
				assert.Equal(t, 250000.0, tx.Price)
				assert.Equal(t, 62.0, tx.Surface)
				assert.Equal(t, 3, tx.Rooms)
				assert.Equal(t, domain.PropertyApartment, tx.PropertyType)
				assert.Equal(t, "750", tx.PostalPrefix)
				assert.Equal(t, "75", tx.Department)
				assert.Equal(t, 2023, tx.Year)
				assert.Equal(t, domain.SeasonSummer, tx.Season)
				assert.True(t, tx.Recent)
			},
		},
		{
			name:   "valid_house_with_land",
			record: []string{"02/11/2021", "310000", "33600", "Maison", "120,5", "5", "450"},
			reason: DropNone,
			check: func(t *testing.T, tx domain.Transaction) {
				assert.Equal(t, domain.PropertyHouse, tx.PropertyType)
				assert.Equal(t, 120.5, tx.Surface)
				assert.Equal(t, 450.0, tx.Land)
				assert.Equal(t, domain.SeasonAutumn, tx.Season)
				assert.False(t, tx.Recent)
			},
		},
		{
			name:   "missing_price",
			record: []string{"15/06/2023", "", "75005", "Appartement", "62", "3", ""},
			reason: DropMissingPrice,
		},
		{
			name:   "missing_surface",
			record: []string{"15/06/2023", "250000", "75005", "Appartement", "", "3", ""},
			reason: DropMissingSurface,
		},
		{
			name:   "missing_rooms",
			record: []string{"15/06/2023", "250000", "75005", "Appartement", "62", "", ""},
			reason: DropMissingRooms,
		},
		{
			name:   "unrepairable_postal",
			record: []string{"15/06/2023", "250000", "75", "Appartement", "62", "3", ""},
			reason: DropBadPostal,
		},
		{
			name:   "commercial_unit_dropped",
			record: []string{"15/06/2023", "250000", "75005", "Local industriel. commercial ou assimilé", "62", "3", ""},
			reason: DropPropertyType,
		},
		{
			name:   "bad_date",
			record: []string{"June 2023", "250000", "75005", "Appartement", "62", "3", ""},
			reason: DropBadDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, reason := parser.Parse(tt.record)
			assert.Equal(t, tt.reason, reason)
			if tt.check != nil {
				tt.check(t, tx)
			}
		})
	}
}

func TestParseFrenchFloat(t *testing.T) {
	v, ok := parseFrenchFloat("1234,56")
	require.True(t, ok)
	assert.InDelta(t, 1234.56, v, 1e-9)

	_, ok = parseFrenchFloat("n/a")
	assert.False(t, ok)
}
