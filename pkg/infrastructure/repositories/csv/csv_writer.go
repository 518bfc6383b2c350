package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// WriteParts writes parts in the format read by Loader.LoadParts
func WriteParts(filename string, parts []*entities.Part) error {
	records := make([][]string, 0, len(parts)+1)
	records = append(records, partsHeader)
	for _, part := range parts {
		records = append(records, []string{
			string(part.SKU),
			part.Description,
			part.FormattedPrice(),
			strconv.FormatInt(int64(part.Stock), 10),
		})
	}
	return writeRecords(filename, records)
}

// WriteBOM writes BOM lines in the format read by Loader.LoadBOM
func WriteBOM(filename string, lines []*entities.BOMLine) error {
	records := make([][]string, 0, len(lines)+1)
	records = append(records, bomHeader)
	for _, line := range lines {
		records = append(records, []string{
			string(line.ParentSKU),
			string(line.ChildSKU),
			strconv.FormatInt(int64(line.QtyPer), 10),
		})
	}
	return writeRecords(filename, records)
}

func writeRecords(filename string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}
