// Package dataprocessing turns raw DVF ("Demandes de Valeurs Foncières")
// land-transaction extracts into cleaned transaction tables suitable for
// model training.
//
// The raw extracts are loosely typed CSV: French decimal commas, malformed
// postal codes, missing fields. Cleaning is a straight-line pass: parse each
// row, repair the postal code, apply the range filters, derive the temporal
// fields, then draw a deterministic stratified sample. Malformed rows are
// dropped silently and tallied by reason into a QualityReport; no row-level
// failure is fatal. An empty result after filtering is the only fatal
// condition.
package dataprocessing
