package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/visualrobotics/mrp/pkg/application/dto"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

const (
	StockReportTitle   = "Visual Robotics Stock Report"
	DefaultRowsPerPage = 40

	reportTimeLayout = "January 02, 2006 15:04"
	fileTimeLayout   = "2006.01.02-15.04"
)

// StockReportFilename is the generated name of a stock report PDF
func StockReportFilename(t time.Time) string {
	return "VR-StockReport-" + t.Format(fileTimeLayout) + ".pdf"
}

// DemandReportFilename is the generated name of a demand analysis PDF
func DemandReportFilename(t time.Time) string {
	return "DemandAnalysis-" + t.Format(fileTimeLayout) + ".pdf"
}

// EnsurePDFExtension appends .pdf unless the path already ends with it
func EnsurePDFExtension(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return path
	}
	return path + ".pdf"
}

// WriteStockReportPDF writes the stock report as a table of SKU, description,
// price and stock, rowsPerPage rows per page, each page headed by the title
// and a generation/page line
func WriteStockReportPDF(path string, report *dto.StockReport, rowsPerPage int) error {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}

	pages := (len(report.Parts) + rowsPerPage - 1) / rowsPerPage
	if pages == 0 {
		pages = 1
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(15, 15, 15)
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30
	widths := []float64{contentW * 0.22, contentW * 0.48, contentW * 0.15, contentW * 0.15}
	generated := report.GeneratedAt.Format(reportTimeLayout)

	for page := 0; page < pages; page++ {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(contentW, 9, StockReportTitle, "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 6,
			fmt.Sprintf("Generated: %s   |   Page %d of %d", generated, page+1, pages),
			"", 1, "C", false, 0, "")
		pdf.Ln(3)

		tableHeader(pdf, widths, []string{"SKU", "Description", "Price", "Stock"})

		pdf.SetFont("Helvetica", "", 9)
		start := page * rowsPerPage
		end := min(start+rowsPerPage, len(report.Parts))
		for _, p := range report.Parts[start:end] {
			pdf.CellFormat(widths[0], 5.5, string(p.SKU), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 5.5, p.Description, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 5.5, p.FormattedPrice(), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 5.5, fmt.Sprintf("%d", p.Stock), "1", 1, "R", false, 0, "")
		}
	}

	return save(pdf, path)
}

// WriteDemandReportPDF writes the demand analysis: the request, then one row
// for the target followed by its leaf components
func WriteDemandReportPDF(path string, report *dto.DemandReport) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Demand Analysis", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("SKU: %s", report.Request.SKU), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Desired Quantity: %d", report.Request.Quantity), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, "Generated: "+report.GeneratedAt.Format(reportTimeLayout), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	widths := []float64{contentW * 0.25, contentW * 0.12, contentW * 0.12, contentW * 0.51}
	tableHeader(pdf, widths, []string{"SKU", "Need", "Stock", "Description"})

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range append([]entities.Requirement{report.Target}, report.Components...) {
		// Short rows are filled so they stand out on paper
		fill := !r.Sufficient()
		pdf.SetFillColor(250, 220, 220)
		pdf.CellFormat(widths[0], 5.5, string(r.SKU), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 5.5, fmt.Sprintf("%d", r.Need), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[2], 5.5, fmt.Sprintf("%d", r.Stock), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[3], 5.5, r.Description, "1", 1, "L", fill, 0, "")
	}

	return save(pdf, path)
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, titles []string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	for i, title := range titles {
		ln := 0
		if i == len(titles)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, title, "1", ln, "C", true, 0, "")
	}
}

func save(pdf *fpdf.Fpdf, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("pdf: create output dir: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("pdf: write %s: %w", path, err)
	}
	return nil
}
