// Package report ranks headings against the query, pairs each selected
// heading with its section body text, and assembles the final report.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/docsift/docsift/internal/boilerplate"
	"github.com/docsift/docsift/internal/heading"
	"github.com/docsift/docsift/internal/pdfdoc"
	"github.com/docsift/docsift/internal/relevance"
	"github.com/docsift/docsift/internal/section"
)

// DefaultTopK is how many sections a report surfaces.
const DefaultTopK = 5

// Metadata describes one analysis run.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked heading.
type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// SubsectionAnalysis is the refined body text of one ranked heading, in the
// same rank order as ExtractedSections.
type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// Report is the final output document.
type Report struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}

// Rank scores every heading against q and returns a new slice sorted by
// score descending. The sort is stable: equal scores keep production order
// (document order, then page, then block).
func Rank(headings []heading.Heading, q relevance.Query) []heading.Heading {
	ranked := make([]heading.Heading, len(headings))
	copy(ranked, headings)
	for i := range ranked {
		ranked[i].Score = relevance.Score(ranked[i].Title, q)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Assembler builds reports from per-document analysis results.
type Assembler struct {
	// Docs maps document name to its materialized pages.
	Docs map[string]*pdfdoc.Document
	// Junk maps document name to its boilerplate set.
	Junk map[string]boilerplate.JunkSet
	// Headings maps document name to that document's full heading list.
	Headings map[string][]heading.Heading
	// TopK caps the number of surfaced sections; DefaultTopK when zero.
	TopK int
}

// Build merges all documents' headings in the order of inputs, ranks them
// against q, selects the top K and extracts each selected heading's body
// text. Both output lists have exactly min(K, totalHeadings) entries.
func (a *Assembler) Build(q relevance.Query, inputs []string, now time.Time) *Report {
	topK := a.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	var all []heading.Heading
	for _, name := range inputs {
		all = append(all, a.Headings[name]...)
	}
	ranked := Rank(all, q)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	// Per-document lists ordered by page then top y, for next-heading lookup.
	ordered := make(map[string][]heading.Heading, len(a.Headings))
	for name, hs := range a.Headings {
		list := make([]heading.Heading, len(hs))
		copy(list, hs)
		heading.SortByPosition(list)
		ordered[name] = list
	}

	rep := &Report{
		Metadata: Metadata{
			InputDocuments:      append([]string(nil), inputs...),
			Persona:             q.Persona,
			JobToBeDone:         q.Job,
			ProcessingTimestamp: now.Format(time.RFC3339),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(ranked)),
		SubsectionAnalysis: make([]SubsectionAnalysis, 0, len(ranked)),
	}

	for i, h := range ranked {
		rep.ExtractedSections = append(rep.ExtractedSections, ExtractedSection{
			Document:       h.Document,
			SectionTitle:   h.Title,
			ImportanceRank: i + 1,
			PageNumber:     h.Page,
		})

		refined := ""
		if doc := a.Docs[h.Document]; doc != nil {
			next := nextHeading(ordered[h.Document], h)
			refined = section.BodyText(doc, h, next, a.Junk[h.Document])
		}
		rep.SubsectionAnalysis = append(rep.SubsectionAnalysis, SubsectionAnalysis{
			Document:    h.Document,
			RefinedText: refined,
			PageNumber:  h.Page,
		})
	}
	return rep
}

// nextHeading locates h by value in its document's ordered list and returns
// the heading immediately after it. It returns nil when h is last, or when h
// cannot be located at all: a lookup miss degrades to extracting through the
// end of the document rather than failing the run.
func nextHeading(ordered []heading.Heading, h heading.Heading) *heading.Heading {
	for i := range ordered {
		if heading.Same(ordered[i], h) {
			if i+1 < len(ordered) {
				return &ordered[i+1]
			}
			return nil
		}
	}
	return nil
}

// WriteJSON writes the report as indented JSON to path.
func WriteJSON(rep *Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
