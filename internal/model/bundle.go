package model

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"estimmo/internal/features"
)

// BundleVersion tags the serialized format. Bump it whenever the feature
// layout or model structure changes incompatibly.
const BundleVersion = 3

// Metadata describes a fitted bundle: evaluation scores and everything
// needed to reproduce or audit the training run. It is saved both inside
// the gob bundle and as a human-readable JSON sidecar.
type Metadata struct {
	Version        int       `json:"version"`
	TrainedAt      time.Time `json:"trained_at"`
	Seed           int64     `json:"seed"`
	TrainRows      int       `json:"train_rows"`
	TestRows       int       `json:"test_rows"`
	Features       []string  `json:"features"`
	TestR2         float64   `json:"test_r2"`
	TrainR2        float64   `json:"train_r2"`
	Overfit        float64   `json:"overfit"`
	MAE            float64   `json:"mae"`
	MSE            float64   `json:"mse"`
	BiasFactor     float64   `json:"bias_factor"`
	ReferenceYear  int       `json:"reference_year"`
	ReferenceMonth int       `json:"reference_month"`
}

// Bundle is everything the web service needs to price a property: the
// blended ensemble, the fitted encoders and scaler, and the run metadata.
type Bundle struct {
	Ensemble *Ensemble
	Deriver  *features.Deriver
	Scaler   *features.RobustScaler
	Columns  []string
	Meta     Metadata
}

// PredictPrice derives, scales and scores one input, returning the
// bias-corrected price in euros.
func (b *Bundle) PredictPrice(in features.Input) float64 {
	vec := b.Scaler.Transform(b.Deriver.Vector(in))
	logPrice := b.Ensemble.Predict(vec)
	return math.Expm1(logPrice) * b.Meta.BiasFactor
}

// Save writes the bundle as gob and its metadata as a JSON sidecar.
func (b *Bundle) Save(bundlePath, metadataPath string) error {
	if err := os.MkdirAll(filepath.Dir(bundlePath), 0o755); err != nil {
		return fmt.Errorf("creating models directory: %w", err)
	}

	f, err := os.Create(bundlePath)
	if err != nil {
		return fmt.Errorf("creating bundle file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(b); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("flushing bundle file: %w", err)
	}

	meta, err := json.MarshalIndent(b.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath, meta, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// LoadBundle reads a gob bundle from disk and rejects incompatible
// format versions.
func LoadBundle(bundlePath string) (*Bundle, error) {
	f, err := os.Open(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("opening bundle file: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	if b.Meta.Version != BundleVersion {
		return nil, fmt.Errorf("bundle version %d is not supported, want %d", b.Meta.Version, BundleVersion)
	}
	return &b, nil
}
