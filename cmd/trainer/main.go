package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"estimmo/internal/config"
	"estimmo/internal/dataprocessing"
	"estimmo/internal/exporter"
	"estimmo/internal/infrastructure"
	"estimmo/internal/model"
)

func main() {
	inPath := flag.String("in", "", "cleaned CSV file (defaults to the configured clean file)")
	modelsDir := flag.String("models", "", "output directory for the model bundle (defaults to the configured models dir)")
	reportPath := flag.String("report", "", "evaluation workbook output (defaults to reports/evaluation.xlsx)")
	seed := flag.Int64("seed", 0, "training seed, 0 keeps the configured default")
	maxRows := flag.Int("max-rows", 0, "cap on training rows, 0 means no cap")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogger()

	if *inPath == "" {
		*inPath = cfg.Paths.CleanFile
	}
	if *modelsDir == "" {
		*modelsDir = cfg.Paths.ModelsDir
	}
	if *reportPath == "" {
		*reportPath = filepath.Join(cfg.Paths.ReportsDir, "evaluation.xlsx")
	}

	trainingCfg := model.DefaultTrainingConfig()
	if *seed != 0 {
		trainingCfg.Seed = *seed
	}

	if err := run(*inPath, *modelsDir, *reportPath, *maxRows, trainingCfg, logger); err != nil {
		logger.Error("Training failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(inPath, modelsDir, reportPath string, maxRows int, trainingCfg model.TrainingConfig, logger *slog.Logger) error {
	rows, err := dataprocessing.LoadCleanCSV(inPath)
	if err != nil {
		return err
	}
	logger.Info("Loaded cleaned transactions",
		slog.String("input", inPath),
		slog.Int("rows", len(rows)))

	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
		logger.Info("Capped training rows", slog.Int("max_rows", maxRows))
	}

	ctx := infrastructure.EnsureTraceID(context.Background())
	bundle, eval, err := model.Train(ctx, rows, trainingCfg, logger)
	if err != nil {
		return err
	}

	if err := exporter.WriteEvaluationWorkbook(reportPath, eval); err != nil {
		return err
	}
	logger.Info("Wrote evaluation workbook", slog.String("report", reportPath))

	if bundle.Meta.TestR2 < trainingCfg.MinTestR2 {
		return fmt.Errorf("holdout R2 %.3f is below the %.2f persistence gate, bundle not saved",
			bundle.Meta.TestR2, trainingCfg.MinTestR2)
	}

	bundlePath := filepath.Join(modelsDir, config.BundleFileName)
	metadataPath := filepath.Join(modelsDir, config.MetadataFileName)
	if err := bundle.Save(bundlePath, metadataPath); err != nil {
		return err
	}

	logger.Info("Training finished",
		slog.Float64("test_r2", bundle.Meta.TestR2),
		slog.Float64("mae", bundle.Meta.MAE),
		slog.Float64("bias_factor", bundle.Meta.BiasFactor),
		slog.String("bundle", bundlePath))
	return nil
}
