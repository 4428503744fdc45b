package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the report as a simple printable PDF. Layout is
// intentionally minimal: heading, metadata lines, ranked list, then one
// sub-heading per refined excerpt.
func WritePDF(rep *Report, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Section Relevance Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	meta := []string{
		"Persona: " + rep.Metadata.Persona,
		"Job to be done: " + rep.Metadata.JobToBeDone,
		"Processed: " + rep.Metadata.ProcessingTimestamp,
	}
	for _, line := range meta {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Ranked sections", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if len(rep.ExtractedSections) == 0 {
		pdf.MultiCell(0, 5, "No headings were found in the input documents.", "", "L", false)
	}
	for _, s := range rep.ExtractedSections {
		line := fmt.Sprintf("%d. %s  (%s, page %d)", s.ImportanceRank, s.SectionTitle, s.Document, s.PageNumber)
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
	pdf.Ln(4)

	for i, sub := range rep.SubsectionAnalysis {
		title := ""
		if i < len(rep.ExtractedSections) {
			title = rep.ExtractedSections[i].SectionTitle
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, title), "", "L", false)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 4, fmt.Sprintf("%s, page %d", sub.Document, sub.PageNumber), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		text := sub.RefinedText
		if text == "" {
			text = "(no body text)"
		}
		pdf.MultiCell(0, 5, text, "", "L", false)
		pdf.Ln(3)
	}

	return pdf.OutputFileAndClose(outPath)
}
