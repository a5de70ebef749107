package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"estimmo/internal/config"
	"estimmo/pkg/contracts/domain"
)

// saleDateLayout is the date format of the cleaned CSV.
const saleDateLayout = "2006-01-02"

// TransactionWriter streams cleaned transactions to a CSV file with the
// canonical column layout.
type TransactionWriter struct {
	file   *os.File
	writer *csv.Writer
	rows   int
}

// NewTransactionWriter creates the output file, its parent directory and
// writes the header row.
func NewTransactionWriter(path string) (*TransactionWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(config.CleanColumns); err != nil {
		file.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	return &TransactionWriter{file: file, writer: writer}, nil
}

// Write appends one transaction row.
func (w *TransactionWriter) Write(tx domain.Transaction) error {
	record := []string{
		formatFloat(tx.Price),
		formatFloat(tx.Surface),
		strconv.Itoa(tx.Rooms),
		formatFloat(tx.Land),
		tx.SaleDate.Format(saleDateLayout),
		string(tx.PropertyType),
		tx.PostalCode,
		tx.PostalPrefix,
		tx.Department,
		strconv.Itoa(tx.Year),
		strconv.Itoa(tx.Month),
		string(tx.Season),
		strconv.FormatBool(tx.Recent),
	}
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("writing row %d: %w", w.rows+1, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (w *TransactionWriter) Rows() int {
	return w.rows
}

// Close flushes buffered rows and closes the file.
func (w *TransactionWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("flushing rows: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

// formatFloat renders a value with two decimal places, so 13.4 exports
// as 13.40.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
