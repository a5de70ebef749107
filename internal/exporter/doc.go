// Package exporter writes the pipeline's file outputs: the cleaned
// transaction CSV consumed by the trainer, the JSON data-quality report
// produced alongside it, and the Excel evaluation workbook summarizing a
// training run.
package exporter
