// Package correction implements the automatic post-prediction correction
// (v3): raw ensemble predictions are compared against a static reference
// price table keyed by postal-code prefix, blended toward the zone price
// when they deviate beyond the configured bands, and clamped to a safety
// range so no adjustment can run away.
//
// The correction never touches model training; it only post-processes
// inference-time output.
package correction
