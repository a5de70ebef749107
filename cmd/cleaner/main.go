package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"estimmo/internal/config"
	"estimmo/internal/correction"
	"estimmo/internal/dataprocessing"
	"estimmo/internal/exporter"
	"estimmo/internal/files"
	"estimmo/internal/infrastructure"
)

func main() {
	inPath := flag.String("in", "", "raw DVF CSV file (defaults to the configured raw file)")
	outPath := flag.String("out", "", "cleaned CSV output (defaults to the configured clean file)")
	reportPath := flag.String("report", "", "quality report JSON output (defaults to reports/quality.json)")
	sample := flag.Float64("sample", 0, "per-department sampling fraction, 0 keeps the configured default")
	seed := flag.Int64("seed", 0, "sampling seed, 0 keeps the configured default")
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
		*inPath = cfg.Paths.RawFile
		if _, statErr := os.Stat(*inPath); os.IsNotExist(statErr) {
			// Fall back to the newest extract dropped into the data dir.
			latest, findErr := files.NewDiscovery(cfg.Paths.DataDir).LatestRawExtract(".")
			if findErr != nil {
				logger.Error("No raw extract found", slog.String("error", findErr.Error()))
				os.Exit(1)
			}
			*inPath = latest.Path
		}
	}
	if *outPath == "" {
		*outPath = cfg.Paths.CleanFile
	}
	if *reportPath == "" {
		*reportPath = filepath.Join(cfg.Paths.ReportsDir, "quality.json")
	}

	cleaningCfg := dataprocessing.DefaultCleaningConfig()
	if *sample > 0 {
		cleaningCfg.SampleFraction = *sample
	}
	if *seed != 0 {
		cleaningCfg.Seed = *seed
	}

	logger.Info("Starting DVF cleaning",
		slog.String("input", *inPath),
		slog.String("output", *outPath),
		slog.Float64("sample_fraction", cleaningCfg.SampleFraction),
		slog.Int64("seed", cleaningCfg.Seed))

	if err := run(*inPath, *outPath, *reportPath, cleaningCfg, logger); err != nil {
		logger.Error("Cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(inPath, outPath, reportPath string, cleaningCfg dataprocessing.CleaningConfig, logger *slog.Logger) error {
	refs, err := correction.LoadReferenceTable(correction.DefaultConfig().NationalPriceM2)
	if err != nil {
		return err
	}

	cleaner, err := dataprocessing.NewCleaner(cleaningCfg, refs.Prefixes(), logger)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	ctx := infrastructure.EnsureTraceID(context.Background())
	rows, report, err := cleaner.Clean(ctx, in)
	if err != nil {
		return err
	}

	writer, err := exporter.NewTransactionWriter(outPath)
	if err != nil {
		return err
	}
	for _, tx := range rows {
		if err := writer.Write(tx); err != nil {
			writer.Close()
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if err := exporter.WriteQualityReport(reportPath, report); err != nil {
		return err
	}

	logger.Info("Cleaning finished",
		slog.Int("total_rows", report.TotalRows),
		slog.Int("kept_rows", report.KeptRows),
		slog.Int("sampled_rows", report.SampledRows),
		slog.String("output", outPath),
		slog.String("report", reportPath))
	return nil
}
