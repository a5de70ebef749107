package exporter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimmo/internal/dataprocessing"
	"estimmo/pkg/contracts/domain"
)

func sampleTransaction() domain.Transaction {
	return domain.Transaction{
		Price:        245_000,
		Surface:      72.4,
		Rooms:        3,
		Land:         0,
		SaleDate:     time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
		PropertyType: domain.PropertyApartment,
		PostalCode:   "69003",
		PostalPrefix: "690",
		Department:   "69",
		Year:         2024,
		Month:        5,
		Season:       domain.SeasonSpring,
		Recent:       true,
	}
}

func TestTransactionWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.csv")

	w, err := NewTransactionWriter(path)
	require.NoError(t, err)

	first := sampleTransaction()
	second := sampleTransaction()
	second.Price = 480_000
	second.PropertyType = domain.PropertyHouse
	second.Land = 350.5
	second.Recent = false

	require.NoError(t, w.Write(first))
	require.NoError(t, w.Write(second))
	assert.Equal(t, 2, w.Rows())
	require.NoError(t, w.Close())

	rows, err := dataprocessing.LoadCleanCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, first, rows[0])
	assert.Equal(t, second, rows[1])
}

func TestNewTransactionWriterCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "clean.csv")

	w, err := NewTransactionWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows, err := dataprocessing.LoadCleanCSV(path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
