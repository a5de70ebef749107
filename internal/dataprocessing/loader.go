package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"estimmo/internal/config"
	"estimmo/pkg/contracts/domain"
)

// cleanDateLayout is the date format of the cleaned CSV.
const cleanDateLayout = "2006-01-02"

// LoadCleanCSV reads a cleaned transaction file produced by the cleaner.
// Unlike raw DVF parsing, every row here is trusted: any malformed value
// aborts the load with an error naming the offending line.
func LoadCleanCSV(path string) ([]domain.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening clean file: %w", err)
	}
	defer f.Close()

	return readCleanCSV(f)
}

func readCleanCSV(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range config.CleanColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("clean file is missing column %q", name)
		}
	}

	var rows []domain.Transaction
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line+1, err)
		}
		line++

		tx, err := parseCleanRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, tx)
	}
	return rows, nil
}

func parseCleanRecord(record []string, columns map[string]int) (domain.Transaction, error) {
	field := func(name string) string { return record[columns[name]] }

	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parsing price: %w", err)
	}
	surface, err := strconv.ParseFloat(field("surface"), 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parsing surface: %w", err)
	}
	rooms, err := strconv.Atoi(field("rooms"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parsing rooms: %w", err)
	}
	land, err := strconv.ParseFloat(field("land"), 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parsing land: %w", err)
	}
	saleDate, err := time.Parse(cleanDateLayout, field("sale_date"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parsing sale date: %w", err)
	}
	propertyType := domain.PropertyType(field("property_type"))
	if !propertyType.Valid() {
		return domain.Transaction{}, fmt.Errorf("unknown property type %q", field("property_type"))
	}
	year, err := strconv.Atoi(field("year"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parsing year: %w", err)
	}
	month, err := strconv.Atoi(field("month"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parsing month: %w", err)
	}
	recent, err := strconv.ParseBool(field("recent"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parsing recent flag: %w", err)
	}

	return domain.Transaction{
		Price:        price,
		Surface:      surface,
		Rooms:        rooms,
		Land:         land,
		SaleDate:     saleDate,
		PropertyType: propertyType,
		PostalCode:   field("postal_code"),
		PostalPrefix: field("postal_prefix"),
		Department:   field("department"),
		Year:         year,
		Month:        month,
		Season:       domain.Season(field("season")),
		Recent:       recent,
	}, nil
}
