package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/docsift/docsift/internal/boilerplate"
	"github.com/docsift/docsift/internal/heading"
	"github.com/docsift/docsift/internal/pdfdoc"
	"github.com/docsift/docsift/internal/relevance"
)

func textBlock(y float64, text string) pdfdoc.Block {
	return pdfdoc.Block{
		BBox: pdfdoc.BBox{X0: 50, Y0: y, X1: 500, Y1: y + 12},
		Text: text,
	}
}

func TestRankStableOnEqualScores(t *testing.T) {
	q := relevance.NewQuery("chef", "recipes")
	headings := []heading.Heading{
		{Document: "a.pdf", Title: "Chef Notes", Page: 1},
		{Document: "a.pdf", Title: "Chef Advice", Page: 3},
		{Document: "b.pdf", Title: "Chef Basics", Page: 2},
	}

	ranked := Rank(headings, q)
	if len(ranked) != 3 {
		t.Fatalf("got %d ranked headings", len(ranked))
	}
	// All three score identically (one high-value hit each); production
	// order must be preserved.
	want := []string{"Chef Notes", "Chef Advice", "Chef Basics"}
	for i, title := range want {
		if ranked[i].Title != title {
			t.Errorf("rank %d = %q, want %q", i+1, ranked[i].Title, title)
		}
		if ranked[i].Score != 101 {
			t.Errorf("rank %d score = %d, want 101", i+1, ranked[i].Score)
		}
	}
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	q := relevance.NewQuery("chef", "recipes")
	headings := []heading.Heading{
		{Document: "a.pdf", Title: "Appendix", Page: 9},
		{Document: "a.pdf", Title: "Chef Recipes", Page: 2},
		{Document: "a.pdf", Title: "Recipes", Page: 5},
	}

	ranked := Rank(headings, q)
	if ranked[0].Title != "Chef Recipes" || ranked[1].Title != "Recipes" || ranked[2].Title != "Appendix" {
		t.Errorf("unexpected order: %q %q %q", ranked[0].Title, ranked[1].Title, ranked[2].Title)
	}
}

// fixture builds one document whose headings bound simple bodies.
func fixture() (*Assembler, relevance.Query) {
	doc := &pdfdoc.Document{
		Name: "guide.pdf",
		Pages: []pdfdoc.Page{
			{Number: 1, Blocks: []pdfdoc.Block{
				textBlock(100, "Chef Recipes"),
				textBlock(150, "body of chef recipes"),
				textBlock(400, "Storage Tips"),
				textBlock(450, "body of storage tips"),
			}},
		},
	}
	headings := []heading.Heading{
		{Document: "guide.pdf", Title: "Chef Recipes", Page: 1, BBox: pdfdoc.BBox{Y0: 100, Y1: 112}},
		{Document: "guide.pdf", Title: "Storage Tips", Page: 1, BBox: pdfdoc.BBox{Y0: 400, Y1: 412}},
	}
	asm := &Assembler{
		Docs:     map[string]*pdfdoc.Document{"guide.pdf": doc},
		Junk:     map[string]boilerplate.JunkSet{"guide.pdf": {}},
		Headings: map[string][]heading.Heading{"guide.pdf": headings},
	}
	return asm, relevance.NewQuery("chef", "recipes")
}

func TestBuildPairsSectionsWithBodies(t *testing.T) {
	asm, q := fixture()
	rep := asm.Build(q, []string{"guide.pdf"}, time.Now())

	if len(rep.ExtractedSections) != 2 || len(rep.SubsectionAnalysis) != 2 {
		t.Fatalf("got %d sections, %d analyses", len(rep.ExtractedSections), len(rep.SubsectionAnalysis))
	}
	top := rep.ExtractedSections[0]
	if top.SectionTitle != "Chef Recipes" || top.ImportanceRank != 1 {
		t.Errorf("top section = %+v", top)
	}
	if rep.ExtractedSections[1].ImportanceRank != 2 {
		t.Errorf("second rank = %d", rep.ExtractedSections[1].ImportanceRank)
	}

	// The top section is bounded below by "Storage Tips" on the same page.
	if got := rep.SubsectionAnalysis[0].RefinedText; got != "body of chef recipes" {
		t.Errorf("refined text = %q", got)
	}
	// The last heading extracts to the end of the document.
	if got := rep.SubsectionAnalysis[1].RefinedText; got != "body of storage tips" {
		t.Errorf("last refined text = %q", got)
	}
}

func TestBuildCapsAtTopK(t *testing.T) {
	asm, q := fixture()
	asm.TopK = 1
	rep := asm.Build(q, []string{"guide.pdf"}, time.Now())

	if len(rep.ExtractedSections) != 1 || len(rep.SubsectionAnalysis) != 1 {
		t.Errorf("got %d sections, %d analyses, want 1 each",
			len(rep.ExtractedSections), len(rep.SubsectionAnalysis))
	}
}

func TestBuildFewerHeadingsThanTopK(t *testing.T) {
	asm, q := fixture()
	asm.TopK = 5
	rep := asm.Build(q, []string{"guide.pdf"}, time.Now())

	if len(rep.ExtractedSections) != 2 || len(rep.SubsectionAnalysis) != 2 {
		t.Errorf("with 2 headings and K=5 both lists must have 2 entries, got %d and %d",
			len(rep.ExtractedSections), len(rep.SubsectionAnalysis))
	}
}

func TestNextHeadingMissReturnsNil(t *testing.T) {
	ordered := []heading.Heading{
		{Document: "guide.pdf", Title: "Storage Tips", Page: 1, BBox: pdfdoc.BBox{Y0: 400, Y1: 412}},
	}
	// A heading not present in the ordered list has no successor, so body
	// extraction degrades to the end of the document.
	orphan := heading.Heading{Document: "guide.pdf", Title: "Chef Recipes", Page: 1, BBox: pdfdoc.BBox{Y0: 100, Y1: 112}}
	if next := nextHeading(ordered, orphan); next != nil {
		t.Errorf("expected nil next heading, got %+v", *next)
	}

	// The last heading in the list likewise has no successor.
	if next := nextHeading(ordered, ordered[0]); next != nil {
		t.Errorf("expected nil next heading for last entry, got %+v", *next)
	}
}

func TestBuildEmptyInputs(t *testing.T) {
	asm := &Assembler{
		Docs:     map[string]*pdfdoc.Document{},
		Junk:     map[string]boilerplate.JunkSet{},
		Headings: map[string][]heading.Heading{},
	}
	rep := asm.Build(relevance.NewQuery("p", "j"), nil, time.Now())

	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Empty result lists must serialize as [], not null.
	s := string(data)
	for _, wantSub := range []string{`"extracted_sections":[]`, `"subsection_analysis":[]`} {
		if !strings.Contains(s, wantSub) {
			t.Errorf("marshaled report missing %s: %s", wantSub, s)
		}
	}
}

func TestReportJSONFieldNames(t *testing.T) {
	asm, q := fixture()
	rep := asm.Build(q, []string{"guide.pdf"}, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, field := range []string{
		`"metadata"`, `"input_documents"`, `"persona"`, `"job_to_be_done"`,
		`"processing_timestamp":"2025-03-01T12:00:00Z"`,
		`"extracted_sections"`, `"section_title"`, `"importance_rank"`, `"page_number"`,
		`"subsection_analysis"`, `"refined_text"`,
	} {
		if !strings.Contains(s, field) {
			t.Errorf("report JSON missing %s", field)
		}
	}
}
