package services

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimmo/internal/correction"
	apierrors "estimmo/internal/errors"
	"estimmo/internal/features"
	"estimmo/internal/model"
	"estimmo/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testBundle builds a bundle whose ensemble always predicts the same
// price, which makes the correction behavior easy to reason about.
func testBundle(t *testing.T, price float64, testR2 float64) *model.Bundle {
	t.Helper()

	logPrice := math.Log1p(price)
	forest := &model.Forest{Trees: []*model.Tree{{Root: &model.TreeNode{Leaf: true, Value: logPrice}}}}
	width := len(features.Names())
	ridge := &model.Ridge{Weights: make([]float64, width), Intercept: logPrice}

	ensemble, err := model.NewEnsemble(forest, forest, ridge, model.BlendWeights{Forest: 0.55, Extra: 0.30, Ridge: 0.15})
	require.NoError(t, err)

	scales := make([]float64, width)
	for i := range scales {
		scales[i] = 1
	}

	return &model.Bundle{
		Ensemble: ensemble,
		Deriver: &features.Deriver{
			Department: &features.Encoder{Classes: map[string]int{features.OtherClass: 0, "69": 1, "75": 2}},
			Type:       &features.Encoder{Classes: map[string]int{features.OtherClass: 0, "apartment": 1, "house": 2}},
		},
		Scaler:  &features.RobustScaler{Medians: make([]float64, width), Scales: scales},
		Columns: features.Names(),
		Meta: model.Metadata{
			Version:        model.BundleVersion,
			TrainedAt:      time.Now().UTC(),
			BiasFactor:     1,
			TestR2:         testR2,
			TrainRows:      1000,
			ReferenceYear:  2024,
			ReferenceMonth: 12,
		},
	}
}

func testService(t *testing.T, price float64, testR2 float64) *EstimateService {
	t.Helper()

	refs, err := correction.LoadReferenceTable(correction.DefaultConfig().NationalPriceM2)
	require.NoError(t, err)
	corrector, err := correction.NewCorrector(correction.DefaultConfig(), refs, testLogger())
	require.NoError(t, err)

	svc, err := NewEstimateService(testBundle(t, price, testR2), corrector, testLogger())
	require.NoError(t, err)
	return svc
}

func validRequest() domain.EstimateRequest {
	return domain.EstimateRequest{
		Surface:      75,
		Rooms:        3,
		PropertyType: domain.PropertyApartment,
		PostalCode:   "69003",
		Recent:       true,
	}
}

func TestEstimateReturnsCoherentResult(t *testing.T) {
	svc := testService(t, 300_000, 0.6)

	result, err := svc.Estimate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Greater(t, result.Price, 0.0)
	assert.Less(t, result.PriceLow, result.Price)
	assert.Greater(t, result.PriceHigh, result.Price)
	assert.InDelta(t, result.Price*0.8, result.PriceLow, 1e-6)
	assert.InDelta(t, result.Price*1.2, result.PriceHigh, 1e-6)
	assert.InDelta(t, result.Price/75, result.PricePerM2, 1e-6)
	assert.Equal(t, "Département 69", result.Zone)
	assert.Equal(t, 0.6, result.ModelR2)
	assert.Greater(t, result.ReferencePriceM2, 0.0)
	assert.False(t, result.OutOfDomain)
	assert.NotEmpty(t, result.MarketPosition)
}

func TestEstimateIsDeterministic(t *testing.T) {
	svc := testService(t, 300_000, 0.6)
	req := validRequest()

	a, err := svc.Estimate(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Estimate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEstimateValidation(t *testing.T) {
	svc := testService(t, 300_000, 0.6)

	tests := []struct {
		name   string
		mutate func(*domain.EstimateRequest)
	}{
		{"surface too small", func(r *domain.EstimateRequest) { r.Surface = 4 }},
		{"surface too large", func(r *domain.EstimateRequest) { r.Surface = 2000 }},
		{"zero rooms", func(r *domain.EstimateRequest) { r.Rooms = 0 }},
		{"too many rooms", func(r *domain.EstimateRequest) { r.Rooms = 30 }},
		{"bad property type", func(r *domain.EstimateRequest) { r.PropertyType = "castle" }},
		{"short postal code", func(r *domain.EstimateRequest) { r.PostalCode = "7500" }},
		{"non numeric postal code", func(r *domain.EstimateRequest) { r.PostalCode = "7500A" }},
		{"negative land", func(r *domain.EstimateRequest) { r.Land = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Estimate(context.Background(), req)
			require.Error(t, err)

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, 400, apiErr.StatusCode)
		})
	}
}

func TestEstimateFlagsOutOfDomainSurface(t *testing.T) {
	svc := testService(t, 300_000, 0.6)

	req := validRequest()
	req.Surface = 800
	req.Rooms = 12

	result, err := svc.Estimate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.OutOfDomain)
	assert.NotEmpty(t, result.Caveats)
}

func TestEstimateFlagsUnknownZone(t *testing.T) {
	svc := testService(t, 300_000, 0.6)

	req := validRequest()
	req.PostalCode = "99130"

	result, err := svc.Estimate(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, result.Caveats)
	assert.Contains(t, result.Caveats[0], "national average")
}

func TestEstimateFlagsWeakModel(t *testing.T) {
	svc := testService(t, 300_000, 0.3)

	result, err := svc.Estimate(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotEmpty(t, result.Caveats)
	assert.Contains(t, result.Caveats[len(result.Caveats)-1], "indicative")
}

func TestEstimateParisPullsTowardReference(t *testing.T) {
	svc := testService(t, 100_000, 0.6)

	req := validRequest()
	req.PostalCode = "75006"

	result, err := svc.Estimate(context.Background(), req)
	require.NoError(t, err)

	// A 75 m² flat in the 6th arrondissement is worth far more than the
	// raw 100k, so the correction must pull the estimate up.
	assert.Greater(t, result.Price, result.RawPrice)
	assert.Contains(t, result.Zone, "Paris")
}

func TestNewEstimateServiceRequiresDependencies(t *testing.T) {
	refs, err := correction.LoadReferenceTable(correction.DefaultConfig().NationalPriceM2)
	require.NoError(t, err)
	corrector, err := correction.NewCorrector(correction.DefaultConfig(), refs, testLogger())
	require.NoError(t, err)

	_, err = NewEstimateService(nil, corrector, testLogger())
	assert.Error(t, err)
	_, err = NewEstimateService(testBundle(t, 100, 0.6), nil, testLogger())
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	meta := testBundle(t, 300_000, 0.42).Meta
	svc := NewHealthService("1.2.0", meta, testLogger())

	status := svc.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.0", status.Version)
	assert.True(t, status.Model.Loaded)
	assert.Equal(t, 0.42, status.Model.TestR2)
	assert.Equal(t, model.BundleVersion, status.Model.Version)
}

func TestHealthReady(t *testing.T) {
	meta := testBundle(t, 300_000, 0.42).Meta
	svc := NewHealthService("1.2.0", meta, testLogger())

	ready := svc.Ready(context.Background())

	assert.True(t, ready.Ready)
	assert.True(t, ready.ModelLoaded)
}
