package dataprocessing

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"estimmo/pkg/contracts/domain"
)

// ColumnStats summarizes one numeric column of the cleaned output.
type ColumnStats struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// PrefixCount pairs a postal prefix with its row count.
type PrefixCount struct {
	Prefix string `json:"prefix"`
	Count  int    `json:"count"`
}

// QualityReport aggregates the end-of-run cleaning statistics: how many rows
// were read, kept and sampled, drop tallies per reason, the most frequent
// postal prefixes, and per-column summary statistics of the output.
type QualityReport struct {
	TotalRows   int                `json:"total_rows"`
	KeptRows    int                `json:"kept_rows"`
	SampledRows int                `json:"sampled_rows"`
	Drops       map[DropReason]int `json:"drops"`
	TopPrefixes []PrefixCount      `json:"top_prefixes"`
	Columns     []ColumnStats      `json:"columns"`
}

// TopPrefixCount is how many of the most frequent prefixes the report keeps.
const TopPrefixCount = 10

// NewQualityReport creates an empty report.
func NewQualityReport() *QualityReport {
	return &QualityReport{Drops: make(map[DropReason]int)}
}

// Drop tallies one dropped row.
func (r *QualityReport) Drop(reason DropReason) {
	r.Drops[reason]++
}

// DroppedRows returns the total number of dropped rows.
func (r *QualityReport) DroppedRows() int {
	total := 0
	for _, n := range r.Drops {
		total += n
	}
	return total
}

// Finalize computes the output-side statistics from the sampled rows.
func (r *QualityReport) Finalize(rows []domain.Transaction) {
	r.TopPrefixes = topPrefixes(rows, TopPrefixCount)
	r.Columns = summarizeColumns(rows)
}

func topPrefixes(rows []domain.Transaction, n int) []PrefixCount {
	counts := make(map[string]int)
	for _, tx := range rows {
		counts[tx.PostalPrefix]++
	}

	result := make([]PrefixCount, 0, len(counts))
	for prefix, count := range counts {
		result = append(result, PrefixCount{Prefix: prefix, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].Prefix < result[j].Prefix
		}
		return result[i].Count > result[j].Count
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}

func summarizeColumns(rows []domain.Transaction) []ColumnStats {
	columns := []struct {
		name  string
		value func(domain.Transaction) float64
	}{
		{"price", func(tx domain.Transaction) float64 { return tx.Price }},
		{"surface", func(tx domain.Transaction) float64 { return tx.Surface }},
		{"rooms", func(tx domain.Transaction) float64 { return float64(tx.Rooms) }},
		{"land", func(tx domain.Transaction) float64 { return tx.Land }},
		{"price_per_m2", domain.Transaction.PricePerM2},
	}

	stats := make([]ColumnStats, 0, len(columns))
	for _, col := range columns {
		values := make([]float64, len(rows))
		for i, tx := range rows {
			values[i] = col.value(tx)
		}
		stats = append(stats, summarize(col.name, values))
	}
	return stats
}

func summarize(name string, values []float64) ColumnStats {
	cs := ColumnStats{Name: name, Count: len(values)}
	if len(values) == 0 {
		return cs
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	cs.Min = sorted[0]
	cs.Max = sorted[len(sorted)-1]
	cs.Mean = stat.Mean(sorted, nil)
	cs.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return cs
}
