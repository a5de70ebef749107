package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"

	"estimmo/pkg/contracts/domain"
)

// CleaningConfig holds the named thresholds of the cleaning stage. The
// bounds are the validated domain of the downstream model: predictions for
// properties outside them are flagged as out of domain at serving time.
type CleaningConfig struct {
	PriceMin   float64 `yaml:"price_min"`
	PriceMax   float64 `yaml:"price_max"`
	SurfaceMin float64 `yaml:"surface_min"`
	SurfaceMax float64 `yaml:"surface_max"`
	RoomsMin   int     `yaml:"rooms_min"`
	RoomsMax   int     `yaml:"rooms_max"`

	// SampleFraction is the per-department fraction of cleaned rows kept
	// in the output. Seed makes the draw reproducible.
	SampleFraction float64 `yaml:"sample_fraction"`
	Seed           int64   `yaml:"seed"`

	// MinOutputRows is the fatal floor: fewer surviving rows than this
	// means the input was unusable.
	MinOutputRows int `yaml:"min_output_rows"`
}

// DefaultCleaningConfig returns the cleaning thresholds used at training time.
func DefaultCleaningConfig() CleaningConfig {
	return CleaningConfig{
		PriceMin:       10_000,
		PriceMax:       1_500_000,
		SurfaceMin:     10,
		SurfaceMax:     500,
		RoomsMin:       1,
		RoomsMax:       15,
		SampleFraction: 0.5,
		Seed:           42,
		MinOutputRows:  100,
	}
}

// Validate checks the configuration for invalid values
func (c CleaningConfig) Validate() error {
	if c.PriceMin <= 0 || c.PriceMax <= c.PriceMin {
		return fmt.Errorf("invalid price band: [%.0f, %.0f]", c.PriceMin, c.PriceMax)
	}
	if c.SurfaceMin <= 0 || c.SurfaceMax <= c.SurfaceMin {
		return fmt.Errorf("invalid surface band: [%.0f, %.0f]", c.SurfaceMin, c.SurfaceMax)
	}
	if c.RoomsMin < 1 || c.RoomsMax < c.RoomsMin {
		return fmt.Errorf("invalid rooms band: [%d, %d]", c.RoomsMin, c.RoomsMax)
	}
	if c.SampleFraction <= 0 || c.SampleFraction > 1 {
		return fmt.Errorf("sample fraction must be in (0, 1]: %f", c.SampleFraction)
	}
	return nil
}

// InBand reports whether a transaction lies inside the cleaning thresholds.
// All bounds are inclusive.
func (c CleaningConfig) InBand(price, surface float64, rooms int) bool {
	return price >= c.PriceMin && price <= c.PriceMax &&
		surface >= c.SurfaceMin && surface <= c.SurfaceMax &&
		rooms >= c.RoomsMin && rooms <= c.RoomsMax
}

// Cleaner runs the cleaning pass over a raw DVF extract.
type Cleaner struct {
	config   CleaningConfig
	prefixes map[string]bool
	logger   *slog.Logger
}

// NewCleaner creates a cleaner. prefixes is the accepted set of 3-digit
// postal prefixes; rows outside it are dropped.
func NewCleaner(config CleaningConfig, prefixes map[string]bool, logger *slog.Logger) (*Cleaner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cleaning config: %w", err)
	}
	if len(prefixes) == 0 {
		return nil, fmt.Errorf("accepted prefix set is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{config: config, prefixes: prefixes, logger: logger}, nil
}

// Clean reads the raw CSV, applies the filters and derivations, draws the
// stratified sample, and returns the cleaned rows with a quality report.
func (c *Cleaner) Clean(ctx context.Context, r io.Reader) ([]domain.Transaction, *QualityReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read raw header: %w", err)
	}

	parser, err := NewRowParser(header)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid raw file: %w", err)
	}

	report := NewQualityReport()
	var kept []domain.Transaction

	for {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("cleaning cancelled: %w", ctx.Err())
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed CSV lines are dropped and tallied, never fatal.
			report.TotalRows++
			report.Drop(DropMalformedRow)
			continue
		}

		report.TotalRows++

		tx, reason := parser.Parse(record)
		if reason != DropNone {
			report.Drop(reason)
			continue
		}

		if reason := c.filter(tx); reason != DropNone {
			report.Drop(reason)
			continue
		}

		kept = append(kept, tx)
	}

	report.KeptRows = len(kept)

	sampled := c.stratifiedSample(kept)
	report.SampledRows = len(sampled)
	report.Finalize(sampled)

	if len(sampled) < c.config.MinOutputRows {
		return nil, report, fmt.Errorf("cleaning produced %d rows, need at least %d", len(sampled), c.config.MinOutputRows)
	}

	c.logger.InfoContext(ctx, "cleaning completed",
		slog.Int("total_rows", report.TotalRows),
		slog.Int("kept_rows", report.KeptRows),
		slog.Int("sampled_rows", report.SampledRows),
		slog.Int("dropped_rows", report.DroppedRows()),
	)

	return sampled, report, nil
}

// filter applies the range filters and the accepted prefix set.
func (c *Cleaner) filter(tx domain.Transaction) DropReason {
	switch {
	case tx.Price < c.config.PriceMin || tx.Price > c.config.PriceMax:
		return DropPriceRange
	case tx.Surface < c.config.SurfaceMin || tx.Surface > c.config.SurfaceMax:
		return DropSurfaceRange
	case tx.Rooms < c.config.RoomsMin || tx.Rooms > c.config.RoomsMax:
		return DropRoomsRange
	case !c.prefixes[tx.PostalPrefix]:
		return DropUnknownPrefix
	default:
		return DropNone
	}
}

// stratifiedSample draws a deterministic per-department sample. Rows are
// grouped by department, each group is shuffled with a seed derived from the
// configured seed, and the configured fraction is kept. Identical input and
// seed always yield the identical sample.
func (c *Cleaner) stratifiedSample(rows []domain.Transaction) []domain.Transaction {
	if c.config.SampleFraction >= 1 {
		return rows
	}

	byDept := make(map[string][]int)
	for i, tx := range rows {
		byDept[tx.Department] = append(byDept[tx.Department], i)
	}

	depts := make([]string, 0, len(byDept))
	for dept := range byDept {
		depts = append(depts, dept)
	}
	sort.Strings(depts)

	rng := rand.New(rand.NewSource(c.config.Seed))
	var picked []int
	for _, dept := range depts {
		indices := byDept[dept]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		n := int(float64(len(indices))*c.config.SampleFraction + 0.5)
		if n == 0 && len(indices) > 0 {
			n = 1
		}
		picked = append(picked, indices[:n]...)
	}

	// Restore input order so repeated runs produce byte-identical output.
	sort.Ints(picked)

	sampled := make([]domain.Transaction, 0, len(picked))
	for _, i := range picked {
		sampled = append(sampled, rows[i])
	}
	return sampled
}
