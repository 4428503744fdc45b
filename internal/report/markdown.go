package report

import (
	"fmt"
	"strings"
)

// Markdown renders a human-readable digest of the report. The serve mode
// converts this to HTML for the report view; the CLI prints a condensed form
// of the same content.
func Markdown(rep *Report) string {
	var b strings.Builder

	b.WriteString("# Section Relevance Report\n\n")
	fmt.Fprintf(&b, "- **Persona:** %s\n", rep.Metadata.Persona)
	fmt.Fprintf(&b, "- **Job to be done:** %s\n", rep.Metadata.JobToBeDone)
	fmt.Fprintf(&b, "- **Processed:** %s\n", rep.Metadata.ProcessingTimestamp)
	fmt.Fprintf(&b, "- **Documents:** %s\n\n", strings.Join(rep.Metadata.InputDocuments, ", "))

	b.WriteString("## Ranked sections\n\n")
	if len(rep.ExtractedSections) == 0 {
		b.WriteString("No headings were found in the input documents.\n")
		return b.String()
	}
	for _, s := range rep.ExtractedSections {
		fmt.Fprintf(&b, "%d. **%s** — %s, page %d\n",
			s.ImportanceRank, s.SectionTitle, s.Document, s.PageNumber)
	}

	b.WriteString("\n## Refined excerpts\n")
	for i, sub := range rep.SubsectionAnalysis {
		title := ""
		if i < len(rep.ExtractedSections) {
			title = rep.ExtractedSections[i].SectionTitle
		}
		fmt.Fprintf(&b, "\n### %d. %s\n\n", i+1, title)
		fmt.Fprintf(&b, "*%s, page %d*\n\n", sub.Document, sub.PageNumber)
		if sub.RefinedText == "" {
			b.WriteString("(no body text)\n")
		} else {
			b.WriteString(sub.RefinedText)
			b.WriteString("\n")
		}
	}
	return b.String()
}
