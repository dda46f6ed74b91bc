package storage

import (
	"context"
	"encoding/csv"
	"farmmarket_api/internal/marketplace/internal/models"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CeilingImporter loads category price ceilings from semicolon-separated
// CSV feeds. Feeds from legacy admin tooling arrive in Windows-1251, so the
// reader is decoded the same way the supplier feeds are.
type CeilingImporter struct {
	ceilings *CeilingRepository
}

func NewCeilingImporter(ceilings *CeilingRepository) *CeilingImporter {
	return &CeilingImporter{ceilings: ceilings}
}

// ImportCSV parses the feed and replaces the active ceiling of every listed
// category. Returns the number of ceilings applied.
func (i *CeilingImporter) ImportCSV(ctx context.Context, reader io.Reader) (int, error) {
	ceilings, err := ParseCeilingCSV(reader)
	if err != nil {
		return 0, err
	}

	imported := 0
	for idx := range ceilings {
		if err := i.ceilings.ReplaceCeiling(ctx, &ceilings[idx]); err != nil {
			return imported, fmt.Errorf("failed to apply ceiling for %q: %w", ceilings[idx].Category, err)
		}
		imported++
	}
	log.Printf("Imported %d price ceilings", imported)
	return imported, nil
}

// ParseCeilingCSV reads rows of the form
//
//	category;ceiling_price[;start_date[;end_date]]
//
// with dates in YYYY-MM-DD. A header row is skipped when present.
func ParseCeilingCSV(reader io.Reader) ([]models.PriceCeiling, error) {
	decoder := transform.NewReader(reader, charmap.Windows1251.NewDecoder())
	csvReader := csv.NewReader(decoder)
	csvReader.Comma = ';'
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read error: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("csv data is empty")
	}

	if isCeilingHeader(allRows[0]) {
		allRows = allRows[1:]
	}

	ceilings := make([]models.PriceCeiling, 0, len(allRows))
	for n, row := range allRows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected at least category and price, got %d fields", n+1, len(row))
		}

		category := strings.TrimSpace(row[0])
		if category == "" {
			return nil, fmt.Errorf("row %d: empty category", n+1)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid ceiling price %q: %w", n+1, row[1], err)
		}
		if price.IsNegative() || price.IsZero() {
			return nil, fmt.Errorf("row %d: ceiling price must be positive", n+1)
		}

		ceiling := models.PriceCeiling{
			Category:     strings.ToUpper(category),
			CeilingPrice: price,
			Active:       true,
		}
		if len(row) > 2 {
			if ceiling.StartDate, err = parseFeedDate(row[2]); err != nil {
				return nil, fmt.Errorf("row %d: %w", n+1, err)
			}
		}
		if len(row) > 3 {
			if ceiling.EndDate, err = parseFeedDate(row[3]); err != nil {
				return nil, fmt.Errorf("row %d: %w", n+1, err)
			}
		}
		ceilings = append(ceilings, ceiling)
	}
	return ceilings, nil
}

func isCeilingHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "category")
}

func parseFeedDate(field string) (*time.Time, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", field)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", field, err)
	}
	return &t, nil
}
