package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

var (
	partsHeader = []string{"sku", "description", "price", "stock"}
	bomHeader   = []string{"parent_sku", "sku", "quantity"}
)

// Loader handles loading factory data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadParts loads parts from a CSV file
func (l *Loader) LoadParts(filename string) ([]*entities.Part, error) {
	records, err := readRecords(filename, "parts", partsHeader)
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("parts CSV must have header and at least one data row")
	}

	seen := make(map[entities.SKU]int, len(records)-1)
	parts := make([]*entities.Part, 0, len(records)-1)
	for i, record := range records[1:] {
		part, err := parsePart(record)
		if err != nil {
			return nil, fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}
		if row, dup := seen[part.SKU]; dup {
			return nil, fmt.Errorf("parts CSV row %d: duplicate sku %s (first seen in row %d)", i+2, part.SKU, row)
		}
		seen[part.SKU] = i + 2

		parts = append(parts, part)
	}

	return parts, nil
}

// LoadBOM loads BOM lines from a CSV file. A file holding only the header is
// valid: a factory may stock nothing but raw parts.
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMLine, error) {
	records, err := readRecords(filename, "BOM", bomHeader)
	if err != nil {
		return nil, err
	}

	bomLines := make([]*entities.BOMLine, 0, len(records)-1)
	for i, record := range records[1:] {
		bomLine, err := parseBOMLine(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}

		bomLines = append(bomLines, bomLine)
	}

	return bomLines, nil
}

// Helper functions for parsing CSV records

func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(expectedHeader)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV is empty", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parsePart(record []string) (*entities.Part, error) {
	sku := entities.SKU(strings.TrimSpace(record[0]))
	description := strings.TrimSpace(record[1])

	price, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid price: %s", record[2])
	}

	stock, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid stock: %s", record[3])
	}

	return entities.NewPart(sku, description, price, entities.Quantity(stock))
}

func parseBOMLine(record []string) (*entities.BOMLine, error) {
	parentSKU := entities.SKU(strings.TrimSpace(record[0]))
	childSKU := entities.SKU(strings.TrimSpace(record[1]))

	quantity, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[2])
	}

	return entities.NewBOMLine(parentSKU, childSKU, entities.Quantity(quantity))
}
