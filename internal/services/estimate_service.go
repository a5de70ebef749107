package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"estimmo/internal/correction"
	"estimmo/internal/dataprocessing"
	apierrors "estimmo/internal/errors"
	"estimmo/internal/features"
	"estimmo/internal/infrastructure"
	"estimmo/internal/model"
	"estimmo/pkg/contracts/domain"
)

// LowConfidenceR2 is the holdout score under which every estimate
// carries a reliability caveat.
const LowConfidenceR2 = 0.5

// EstimateService prices properties with a fitted bundle and the
// post-prediction market correction. The bundle is loaded once at
// startup and never mutated, so the service is safe for concurrent use
// without locking.
type EstimateService struct {
	bundle    *model.Bundle
	corrector *correction.Corrector
	domainCfg dataprocessing.CleaningConfig
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewEstimateService wires a loaded bundle and corrector into a service.
func NewEstimateService(bundle *model.Bundle, corrector *correction.Corrector, logger *slog.Logger) (*EstimateService, error) {
	if bundle == nil {
		return nil, fmt.Errorf("bundle is required")
	}
	if corrector == nil {
		return nil, fmt.Errorf("corrector is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("estimate service initialized",
		slog.Float64("test_r2", bundle.Meta.TestR2),
		slog.Float64("bias_factor", bundle.Meta.BiasFactor),
		slog.Time("trained_at", bundle.Meta.TrainedAt),
		slog.Int("train_rows", bundle.Meta.TrainRows))

	return &EstimateService{
		bundle:    bundle,
		corrector: corrector,
		domainCfg: dataprocessing.DefaultCleaningConfig(),
		validate:  validator.New(),
		logger:    logger,
	}, nil
}

// Metadata exposes the loaded bundle's training metadata.
func (s *EstimateService) Metadata() model.Metadata {
	return s.bundle.Meta
}

// Estimate validates one request, scores it with the ensemble and
// applies the market correction.
func (s *EstimateService) Estimate(ctx context.Context, req domain.EstimateRequest) (*domain.EstimateResult, error) {
	logger := infrastructure.WithTrace(ctx, s.logger)

	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	in := features.FromRequest(req, s.bundle.Meta.ReferenceMonth, s.bundle.Meta.ReferenceYear)
	raw := s.bundle.PredictPrice(in)

	corrected := s.corrector.Apply(raw, req)

	price := corrected.Adjusted
	pricePerM2 := price / req.Surface

	result := &domain.EstimateResult{
		Price:            price,
		PricePerM2:       pricePerM2,
		PriceLow:         price * (1 - domain.EstimateRangeMargin),
		PriceHigh:        price * (1 + domain.EstimateRangeMargin),
		RawPrice:         raw,
		CorrectionFactor: corrected.Factor,
		ReferencePriceM2: corrected.ReferenceM2,
		Zone:             correction.FormatZone(req.PostalCode),
		MarketPosition:   correction.MarketPosition(pricePerM2, req.PostalCode[:2]),
		ModelR2:          s.bundle.Meta.TestR2,
	}
	s.applyCaveats(result, req, corrected)

	logger.InfoContext(ctx, "estimate computed",
		slog.String("postal_code", req.PostalCode),
		slog.String("property_type", string(req.PropertyType)),
		slog.Float64("surface", req.Surface),
		slog.Float64("raw_price", raw),
		slog.Float64("price", price),
		slog.Float64("correction_factor", corrected.Factor),
		slog.Bool("out_of_domain", result.OutOfDomain))

	return result, nil
}

// applyCaveats flags estimates the model is poorly placed to make:
// requests outside the cleaned training domain, unknown zones and a
// weak holdout score.
func (s *EstimateService) applyCaveats(result *domain.EstimateResult, req domain.EstimateRequest, corrected correction.Result) {
	if req.Surface < s.domainCfg.SurfaceMin || req.Surface > s.domainCfg.SurfaceMax {
		result.OutOfDomain = true
		result.Caveats = append(result.Caveats,
			fmt.Sprintf("surface %.0f m² is outside the %.0f-%.0f m² range the model was trained on", req.Surface, s.domainCfg.SurfaceMin, s.domainCfg.SurfaceMax))
	}
	if !corrected.KnownZone {
		result.Caveats = append(result.Caveats,
			"no market reference for this postal code, the national average was used instead")
	}
	if s.bundle.Meta.TestR2 < LowConfidenceR2 {
		result.Caveats = append(result.Caveats,
			"this estimate comes from a model of limited accuracy and should be treated as indicative")
	}
}

// validationError converts validator failures into a field-level API
// error.
func validationError(err error) error {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return apierrors.ErrValidationFailed
	}

	fields := make([]apierrors.ValidationError, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %s validation", fe.Tag()),
		})
	}
	return apierrors.ErrValidationList(fields)
}
