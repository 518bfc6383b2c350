package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/visualrobotics/mrp/pkg/application/dto"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/services"
)

// Config holds configuration for output generation
type Config struct {
	Format string // text, json, csv or pdf
	Out    io.Writer

	// OutputPath sends the result to a file instead of Out. For pdf it
	// replaces the generated file name and gets a .pdf suffix if missing.
	OutputPath string

	// ReportDir is where pdf reports without OutputPath are written
	ReportDir   string
	RowsPerPage int
}

// Formats lists the accepted values of Config.Format
var Formats = []string{"text", "json", "csv", "pdf"}

type partJSON struct {
	SKU         entities.SKU      `json:"sku"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	Stock       entities.Quantity `json:"stock"`
}

func newPartJSON(p *entities.Part) partJSON {
	return partJSON{SKU: p.SKU, Description: p.Description, Price: p.FormattedPrice(), Stock: p.Stock}
}

type requirementJSON struct {
	entities.Requirement
	Shortfall  entities.Quantity `json:"shortfall"`
	Sufficient bool              `json:"sufficient"`
}

func newRequirementJSON(r entities.Requirement) requirementJSON {
	return requirementJSON{Requirement: r, Shortfall: r.Shortfall(), Sufficient: r.Sufficient()}
}

// GenerateStockReport renders the stock report and returns the path of the
// file written, empty when the report went to Out
func GenerateStockReport(report *dto.StockReport, config Config) (string, error) {
	switch config.Format {
	case "text", "":
		return writeTo(config, func(w io.Writer) error {
			return stockReportText(w, report)
		})
	case "json":
		parts := make([]partJSON, 0, len(report.Parts))
		for _, p := range report.Parts {
			parts = append(parts, newPartJSON(p))
		}
		return writeTo(config, func(w io.Writer) error {
			return writeJSON(w, map[string]interface{}{
				"generated_at": report.GeneratedAt,
				"parts":        parts,
			})
		})
	case "csv":
		return writeTo(config, func(w io.Writer) error {
			records := [][]string{{"sku", "description", "price", "stock"}}
			for _, p := range report.Parts {
				records = append(records, []string{string(p.SKU), p.Description, p.FormattedPrice(), formatQty(p.Stock)})
			}
			return writeCSV(w, records)
		})
	case "pdf":
		path := pdfPath(config, StockReportFilename(report.GeneratedAt))
		if err := WriteStockReportPDF(path, report, config.RowsPerPage); err != nil {
			return "", err
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateDemandReport renders a demand analysis and returns the path of the
// file written, empty when the report went to Out
func GenerateDemandReport(report *dto.DemandReport, config Config) (string, error) {
	switch config.Format {
	case "text", "":
		return writeTo(config, func(w io.Writer) error {
			return demandReportText(w, report)
		})
	case "json":
		components := make([]requirementJSON, 0, len(report.Components))
		for _, c := range report.Components {
			components = append(components, newRequirementJSON(c))
		}
		return writeTo(config, func(w io.Writer) error {
			return writeJSON(w, map[string]interface{}{
				"sku":          report.Request.SKU,
				"quantity":     report.Request.Quantity,
				"target":       newRequirementJSON(report.Target),
				"components":   components,
				"buildable":    report.Buildable(),
				"generated_at": report.GeneratedAt,
			})
		})
	case "csv":
		return writeTo(config, func(w io.Writer) error {
			records := [][]string{{"sku", "need", "stock", "shortfall", "description"}}
			for _, r := range append([]entities.Requirement{report.Target}, report.Components...) {
				records = append(records, []string{
					string(r.SKU), formatQty(r.Need), formatQty(r.Stock), formatQty(r.Shortfall()), r.Description,
				})
			}
			return writeCSV(w, records)
		})
	case "pdf":
		path := pdfPath(config, DemandReportFilename(report.GeneratedAt))
		if err := WriteDemandReportPDF(path, report); err != nil {
			return "", err
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func stockReportText(w io.Writer, report *dto.StockReport) error {
	fmt.Fprintf(w, "📊 %s\n", StockReportTitle)
	fmt.Fprintf(w, "Generated: %s\n\n", report.GeneratedAt.Format(reportTimeLayout))

	fmt.Fprintf(w, "%-20s %-32s %12s %8s\n", "SKU", "Description", "Price", "Stock")
	fmt.Fprintf(w, "%-20s %-32s %12s %8s\n",
		"--------------------", "--------------------------------", "------------", "--------")
	for _, p := range report.Parts {
		fmt.Fprintf(w, "%-20s %-32s %12s %8d\n", p.SKU, truncate(p.Description, 32), p.FormattedPrice(), p.Stock)
	}

	fmt.Fprintf(w, "\nParts: %d   Total stock: %d\n", len(report.Parts), report.TotalStock())
	return nil
}

func demandReportText(w io.Writer, report *dto.DemandReport) error {
	fmt.Fprintf(w, "🔎 Demand Analysis\n")
	fmt.Fprintf(w, "SKU: %s\n", report.Request.SKU)
	fmt.Fprintf(w, "Desired Quantity: %d\n\n", report.Request.Quantity)

	fmt.Fprintf(w, "%-20s %8s %8s %10s  %s\n", "SKU", "Need", "Stock", "Shortfall", "Description")
	fmt.Fprintf(w, "%-20s %8s %8s %10s  %s\n", "--------------------", "--------", "--------", "----------", "-----------")
	fmt.Fprintf(w, "%-20s %8d %8d %10d  %s\n",
		report.Target.SKU, report.Target.Need, report.Target.Stock, report.Target.Shortfall(), report.Target.Description)
	for _, c := range report.Components {
		fmt.Fprintf(w, "%-20s %8d %8d %10d  %s\n", c.SKU, c.Need, c.Stock, c.Shortfall(), c.Description)
	}
	fmt.Fprintln(w)

	switch {
	case report.Target.Need == 0:
		fmt.Fprintf(w, "✅ Stock on hand covers the desired quantity\n")
	case report.Buildable():
		fmt.Fprintf(w, "✅ Components on hand cover %d more units\n", report.Target.Need)
	default:
		fmt.Fprintf(w, "⚠️  %d components are short\n", len(report.Shortages()))
	}
	return nil
}

// WriteBundlePlan prints the components of a bundle and whether it can be built
func WriteBundlePlan(w io.Writer, plan *dto.BundlePlan) {
	fmt.Fprintf(w, "🔧 Bundle %s (%s), stock %d\n\n", plan.Parent.SKU, plan.Parent.Description, plan.Parent.Stock)

	fmt.Fprintf(w, "%-20s %-32s %8s %8s  %s\n", "SKU", "Description", "Required", "Stock", "")
	fmt.Fprintf(w, "%-20s %-32s %8s %8s\n",
		"--------------------", "--------------------------------", "--------", "--------")
	for _, c := range plan.Components {
		status := "ok"
		switch {
		case c.Missing:
			status = "no such part"
		case !c.Sufficient():
			status = "short"
		}
		fmt.Fprintf(w, "%-20s %-32s %8d %8d  %s\n", c.SKU, truncate(c.Description, 32), c.Required, c.Stock, status)
	}
	fmt.Fprintln(w)

	switch {
	case len(plan.Components) == 0:
		fmt.Fprintf(w, "⚠️  %s has no components\n", plan.Parent.SKU)
	case plan.CanBundle():
		fmt.Fprintf(w, "✅ Enough stock to bundle one %s\n", plan.Parent.SKU)
	default:
		fmt.Fprintf(w, "❌ Not enough stock to bundle %s\n", plan.Parent.SKU)
	}
}

// WriteParts prints one line per part
func WriteParts(w io.Writer, parts []*entities.Part) {
	for _, p := range parts {
		fmt.Fprintf(w, "%-20s %s\n", p.SKU, p.Description)
	}
}

// WritePart prints a single part
func WritePart(w io.Writer, p *entities.Part) {
	fmt.Fprintf(w, "SKU:         %s\n", p.SKU)
	fmt.Fprintf(w, "Description: %s\n", p.Description)
	fmt.Fprintf(w, "Price:       %s\n", p.FormattedPrice())
	fmt.Fprintf(w, "Stock:       %d\n", p.Stock)
}

// WriteMovements prints a stock ledger, newest first
func WriteMovements(w io.Writer, sku entities.SKU, movements []*entities.StockMovement) {
	if len(movements) == 0 {
		fmt.Fprintf(w, "No stock movements for %s\n", sku)
		return
	}

	fmt.Fprintf(w, "📦 Stock movements for %s\n", sku)
	fmt.Fprintf(w, "%-17s %-15s %7s %7s %7s  %s\n", "When", "Kind", "Delta", "Before", "After", "Reference")
	for _, m := range movements {
		fmt.Fprintf(w, "%-17s %-15s %+7d %7d %7d  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Kind, m.Delta, m.StockBefore, m.StockAfter, m.Reference)
	}
}

// WriteValidation prints the findings of a BOM check
func WriteValidation(w io.Writer, result *services.ValidationResult) {
	if result.IsValid() {
		fmt.Fprintln(w, "✅ BOM is consistent")
		return
	}
	fmt.Fprintf(w, "❌ BOM check found %d problems:\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}

func writeTo(config Config, render func(w io.Writer) error) (string, error) {
	if config.OutputPath == "" {
		out := config.Out
		if out == nil {
			out = os.Stdout
		}
		return "", render(out)
	}

	if dir := filepath.Dir(config.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", config.OutputPath, err)
	}
	defer file.Close()

	if err := render(file); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", config.OutputPath, err)
	}
	return config.OutputPath, nil
}

func pdfPath(config Config, generated string) string {
	if config.OutputPath != "" {
		return EnsurePDFExtension(config.OutputPath)
	}
	return filepath.Join(config.ReportDir, generated)
}

func writeJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func writeCSV(w io.Writer, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func formatQty(q entities.Quantity) string {
	return strconv.FormatInt(int64(q), 10)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
