package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimmo/pkg/contracts/domain"
)

const cleanHeader = "price,surface,rooms,land,sale_date,property_type,postal_code,postal_prefix,department,year,month,season,recent"

func TestReadCleanCSV(t *testing.T) {
	in := cleanHeader + "\n" +
		"245000.00,72.40,3,0.00,2024-05-17,apartment,69003,690,69,2024,5,spring,true\n"

	rows, err := readCleanCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	tx := rows[0]
	assert.Equal(t, 245000.0, tx.Price)
	assert.Equal(t, 72.4, tx.Surface)
	assert.Equal(t, 3, tx.Rooms)
	assert.Equal(t, domain.PropertyApartment, tx.PropertyType)
	assert.Equal(t, "690", tx.PostalPrefix)
	assert.Equal(t, domain.SeasonSpring, tx.Season)
	assert.True(t, tx.Recent)
}

func TestReadCleanCSVMissingColumn(t *testing.T) {
	in := "price,surface\n100000.00,50.00\n"

	_, err := readCleanCSV(strings.NewReader(in))
	assert.ErrorContains(t, err, "missing column")
}

func TestReadCleanCSVMalformedValue(t *testing.T) {
	in := cleanHeader + "\n" +
		"not-a-price,72.40,3,0.00,2024-05-17,apartment,69003,690,69,2024,5,spring,true\n"

	_, err := readCleanCSV(strings.NewReader(in))
	assert.ErrorContains(t, err, "line 2")
}

func TestReadCleanCSVUnknownPropertyType(t *testing.T) {
	in := cleanHeader + "\n" +
		"245000.00,72.40,3,0.00,2024-05-17,castle,69003,690,69,2024,5,spring,true\n"

	_, err := readCleanCSV(strings.NewReader(in))
	assert.ErrorContains(t, err, "property type")
}
