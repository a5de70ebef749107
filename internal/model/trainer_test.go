package model

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimmo/internal/features"
	"estimmo/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTrainingConfig() TrainingConfig {
	cfg := DefaultTrainingConfig()
	cfg.Forest = ForestConfig{Trees: 15, MaxDepth: 10, MinSamplesSplit: 4, MinSamplesLeaf: 2, Bootstrap: true}
	cfg.Extra = ForestConfig{Trees: 10, MaxDepth: 8, MinSamplesSplit: 4, MinSamplesLeaf: 2, RandomThresholds: true}
	cfg.DeptMinCount = 5
	return cfg
}

// syntheticMarket builds transactions whose price follows a per-district
// rate per square metre with mild deterministic noise.
func syntheticMarket(n int) []domain.Transaction {
	rates := map[string]float64{"75": 10_000, "69": 4_500, "33": 3_500}
	depts := []string{"75", "69", "33"}
	rng := rand.New(rand.NewSource(17))

	rows := make([]domain.Transaction, n)
	for i := range rows {
		dept := depts[i%len(depts)]
		surface := 20 + rng.Float64()*100
		noise := 0.9 + rng.Float64()*0.2
		month := 1 + i%12

		rows[i] = domain.Transaction{
			Price:        rates[dept] * surface * noise,
			Surface:      surface,
			Rooms:        1 + int(surface/30),
			SaleDate:     time.Date(2024, time.Month(month), 10, 0, 0, 0, 0, time.UTC),
			PropertyType: domain.PropertyApartment,
			PostalCode:   dept + "001",
			PostalPrefix: dept + "0",
			Department:   dept,
			Year:         2024,
			Month:        month,
			Season:       domain.SeasonOf(time.Month(month)),
			Recent:       true,
		}
	}
	return rows
}

func TestTrainProducesAccurateBundle(t *testing.T) {
	rows := syntheticMarket(300)

	bundle, eval, err := Train(context.Background(), rows, testTrainingConfig(), testLogger())
	require.NoError(t, err)

	assert.Greater(t, bundle.Meta.TestR2, 0.6)
	assert.GreaterOrEqual(t, bundle.Meta.BiasFactor, 0.5)
	assert.LessOrEqual(t, bundle.Meta.BiasFactor, 2.0)
	assert.Equal(t, 240, bundle.Meta.TrainRows)
	assert.Equal(t, 60, bundle.Meta.TestRows)
	assert.Equal(t, features.Names(), bundle.Meta.Features)
	assert.Equal(t, 2024, bundle.Meta.ReferenceYear)
	assert.Equal(t, BundleVersion, bundle.Meta.Version)

	require.NotNil(t, eval)
	assert.NotEmpty(t, eval.Examples)
	assert.Equal(t, bundle.Meta.TestR2, eval.Meta.TestR2)
}

func TestTrainIsDeterministic(t *testing.T) {
	rows := syntheticMarket(300)
	cfg := testTrainingConfig()

	a, _, err := Train(context.Background(), rows, cfg, testLogger())
	require.NoError(t, err)
	b, _, err := Train(context.Background(), rows, cfg, testLogger())
	require.NoError(t, err)

	assert.Equal(t, a.Meta.TestR2, b.Meta.TestR2)
	assert.Equal(t, a.Meta.BiasFactor, b.Meta.BiasFactor)

	in := features.Input{Surface: 70, Rooms: 3, Department: "75", PropertyType: domain.PropertyApartment, Month: 6, Year: 2024, Recent: true}
	assert.Equal(t, a.PredictPrice(in), b.PredictPrice(in))
}

func TestTrainPredictsHigherInExpensiveDistricts(t *testing.T) {
	rows := syntheticMarket(300)

	bundle, _, err := Train(context.Background(), rows, testTrainingConfig(), testLogger())
	require.NoError(t, err)

	paris := features.Input{Surface: 70, Rooms: 3, Department: "75", PropertyType: domain.PropertyApartment, Month: 6, Year: 2024, Recent: true}
	bordeaux := paris
	bordeaux.Department = "33"

	assert.Greater(t, bundle.PredictPrice(paris), bundle.PredictPrice(bordeaux))
}

func TestTrainRejectsInvalidConfig(t *testing.T) {
	cfg := testTrainingConfig()
	cfg.Weights.Ridge = 0.5

	_, _, err := Train(context.Background(), syntheticMarket(100), cfg, testLogger())
	assert.Error(t, err)
}

func TestTrainRejectsTooFewRows(t *testing.T) {
	_, _, err := Train(context.Background(), syntheticMarket(3), testTrainingConfig(), testLogger())
	assert.Error(t, err)
}
