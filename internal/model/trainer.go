package model

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"estimmo/internal/features"
	"estimmo/pkg/contracts/domain"
)

// ExamplePrediction pairs one holdout transaction with the price the
// fitted bundle assigns to it, for the evaluation report.
type ExamplePrediction struct {
	Department   string  `json:"department"`
	PropertyType string  `json:"property_type"`
	Surface      float64 `json:"surface"`
	Rooms        int     `json:"rooms"`
	Actual       float64 `json:"actual"`
	Predicted    float64 `json:"predicted"`
}

// Evaluation is the holdout assessment of one training run.
type Evaluation struct {
	Meta     Metadata
	Examples []ExamplePrediction
}

// maxExamples caps the prediction table in the evaluation report.
const maxExamples = 20

// Train fits the full ensemble on cleaned transactions and evaluates it
// on a seeded holdout split. Encoders and the scaler are fitted on the
// training split only, so holdout scores are honest.
func Train(ctx context.Context, rows []domain.Transaction, cfg TrainingConfig, logger *slog.Logger) (*Bundle, *Evaluation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid training config: %w", err)
	}

	train, test, err := trainTestSplit(rows, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("splitting rows: %w", err)
	}
	logger.InfoContext(ctx, "split rows",
		slog.Int("train", len(train)),
		slog.Int("test", len(test)),
		slog.Int64("seed", cfg.Seed))

	depts := make([]string, len(train))
	types := make([]string, len(train))
	for i, tx := range train {
		depts[i] = tx.Department
		types[i] = string(tx.PropertyType)
	}
	deriver := &features.Deriver{
		Department: features.FitEncoder(depts, cfg.DeptMinCount),
		Type:       features.FitEncoder(types, 1),
	}
	logger.InfoContext(ctx, "fitted encoders",
		slog.Int("departments", deriver.Department.Len()),
		slog.Int("property_types", deriver.Type.Len()))

	trainInputs := make([]features.Input, len(train))
	trainY := make([]float64, len(train))
	for i, tx := range train {
		trainInputs[i] = features.FromTransaction(tx)
		trainY[i] = math.Log1p(tx.Price)
	}

	rawTrainX := deriver.Matrix(trainInputs)
	scaler, err := features.FitScaler(rawTrainX)
	if err != nil {
		return nil, nil, fmt.Errorf("fitting scaler: %w", err)
	}
	trainX := scaler.TransformMatrix(rawTrainX)

	started := time.Now()
	forest, err := fitForest(ctx, trainX, trainY, cfg.Forest, cfg.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("fitting forest: %w", err)
	}
	logger.InfoContext(ctx, "fitted forest",
		slog.Int("trees", cfg.Forest.Trees),
		slog.Duration("elapsed", time.Since(started)))

	started = time.Now()
	extra, err := fitForest(ctx, trainX, trainY, cfg.Extra, cfg.Seed+int64(cfg.Forest.Trees))
	if err != nil {
		return nil, nil, fmt.Errorf("fitting extra trees: %w", err)
	}
	logger.InfoContext(ctx, "fitted extra trees",
		slog.Int("trees", cfg.Extra.Trees),
		slog.Duration("elapsed", time.Since(started)))

	ridge, err := fitRidge(trainX, trainY, cfg.RidgeAlpha)
	if err != nil {
		return nil, nil, fmt.Errorf("fitting ridge: %w", err)
	}

	ensemble, err := NewEnsemble(forest, extra, ridge, cfg.Weights)
	if err != nil {
		return nil, nil, err
	}

	bias := biasFactor(ensemble, trainX, train, cfg)
	logger.InfoContext(ctx, "computed bias factor", slog.Float64("bias", bias))

	refYear, refMonth := referencePeriod(train)

	bundle := &Bundle{
		Ensemble: ensemble,
		Deriver:  deriver,
		Scaler:   scaler,
		Columns:  features.Names(),
		Meta: Metadata{
			Version:        BundleVersion,
			TrainedAt:      time.Now().UTC(),
			Seed:           cfg.Seed,
			TrainRows:      len(train),
			TestRows:       len(test),
			Features:       features.Names(),
			BiasFactor:     bias,
			ReferenceYear:  refYear,
			ReferenceMonth: refMonth,
		},
	}

	eval := evaluate(bundle, train, test)
	bundle.Meta = eval.Meta
	logger.InfoContext(ctx, "evaluated bundle",
		slog.Float64("test_r2", eval.Meta.TestR2),
		slog.Float64("train_r2", eval.Meta.TrainR2),
		slog.Float64("mae", eval.Meta.MAE))

	return bundle, eval, nil
}

// biasFactor corrects the systematic shrinkage of log-space blending: the
// ratio of mean actual price over mean predicted price on the training
// split, clamped so a degenerate fit cannot explode serving prices.
func biasFactor(ensemble *Ensemble, trainX [][]float64, train []domain.Transaction, cfg TrainingConfig) float64 {
	var actualSum, predictedSum float64
	for i, tx := range train {
		actualSum += tx.Price
		predictedSum += math.Expm1(ensemble.Predict(trainX[i]))
	}
	if predictedSum <= 0 {
		return 1
	}

	bias := actualSum / predictedSum
	if bias < cfg.BiasMin {
		bias = cfg.BiasMin
	}
	if bias > cfg.BiasMax {
		bias = cfg.BiasMax
	}
	return bias
}

// referencePeriod returns the latest sale year and month seen in
// training, the period serving-time requests are anchored to.
func referencePeriod(train []domain.Transaction) (year, month int) {
	for _, tx := range train {
		if tx.Year > year || (tx.Year == year && tx.Month > month) {
			year = tx.Year
			month = tx.Month
		}
	}
	return year, month
}

func evaluate(bundle *Bundle, train, test []domain.Transaction) *Evaluation {
	predictPrices := func(rows []domain.Transaction) (actual, predicted []float64) {
		actual = make([]float64, len(rows))
		predicted = make([]float64, len(rows))
		for i, tx := range rows {
			actual[i] = tx.Price
			predicted[i] = bundle.PredictPrice(features.FromTransaction(tx))
		}
		return actual, predicted
	}

	trainActual, trainPredicted := predictPrices(train)
	testActual, testPredicted := predictPrices(test)

	meta := bundle.Meta
	meta.TestR2 = R2(testActual, testPredicted)
	meta.TrainR2 = R2(trainActual, trainPredicted)
	meta.Overfit = meta.TrainR2 - meta.TestR2
	meta.MAE = MAE(testActual, testPredicted)
	meta.MSE = MSE(testActual, testPredicted)

	count := len(test)
	if count > maxExamples {
		count = maxExamples
	}
	examples := make([]ExamplePrediction, count)
	for i := 0; i < count; i++ {
		tx := test[i]
		examples[i] = ExamplePrediction{
			Department:   tx.Department,
			PropertyType: string(tx.PropertyType),
			Surface:      tx.Surface,
			Rooms:        tx.Rooms,
			Actual:       tx.Price,
			Predicted:    testPredicted[i],
		}
	}

	return &Evaluation{Meta: meta, Examples: examples}
}
