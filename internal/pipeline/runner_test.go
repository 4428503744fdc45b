package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/pdfdoc"
	"github.com/docsift/docsift/internal/relevance"
)

// stubLoader serves canned documents keyed by path and fails on demand.
type stubLoader struct {
	docs map[string]*pdfdoc.Document
	fail map[string]error
}

func (s *stubLoader) Load(_ context.Context, path string) (*pdfdoc.Document, error) {
	if err, ok := s.fail[path]; ok {
		return nil, err
	}
	doc, ok := s.docs[path]
	if !ok {
		return nil, errors.New("no such document")
	}
	return doc, nil
}

func styledBlock(y float64, text string, size float64, bold bool) pdfdoc.Block {
	font := "Helvetica"
	if bold {
		font = "Helvetica-Bold"
	}
	span := pdfdoc.Span{Text: text, FontSize: size, FontName: font}
	return pdfdoc.Block{
		BBox:  pdfdoc.BBox{X0: 50, Y0: y, X1: 500, Y1: y + size},
		Lines: []pdfdoc.Line{{Spans: []pdfdoc.Span{span}}},
		Text:  text,
	}
}

// syntheticDoc has one clear heading style (16pt bold) over a dominant body
// style (10pt regular).
func syntheticDoc(name, headingTitle string) *pdfdoc.Document {
	return &pdfdoc.Document{
		Name: name,
		Pages: []pdfdoc.Page{
			{Number: 1, Width: 612, Height: 792, Blocks: []pdfdoc.Block{
				styledBlock(72, headingTitle, 16, true),
				styledBlock(110, "first paragraph of body text", 10, false),
				styledBlock(140, "second paragraph of body text", 10, false),
				styledBlock(170, "third paragraph of body text", 10, false),
			}},
		},
	}
}

func testRunner(loader pdfdoc.Loader) *Runner {
	return &Runner{
		Loader:  loader,
		Probe:   func(string) (int, error) { return 1, nil },
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Workers: 2,
		TopK:    5,
	}
}

func TestRunProducesRankedReport(t *testing.T) {
	loader := &stubLoader{docs: map[string]*pdfdoc.Document{
		"/in/a.pdf": syntheticDoc("a.pdf", "Chef Recipes"),
		"/in/b.pdf": syntheticDoc("b.pdf", "Storage Tips"),
	}}
	r := testRunner(loader)

	q := relevance.NewQuery("chef", "find recipes")
	res, err := r.Run(context.Background(), []string{"/in/a.pdf", "/in/b.pdf"}, q)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	rep := res.Report
	if got := rep.Metadata.InputDocuments; len(got) != 2 || got[0] != "a.pdf" || got[1] != "b.pdf" {
		t.Errorf("input documents = %v", got)
	}
	if len(rep.ExtractedSections) != 2 {
		t.Fatalf("got %d sections", len(rep.ExtractedSections))
	}
	if rep.ExtractedSections[0].SectionTitle != "Chef Recipes" {
		t.Errorf("top section = %q, want the query-relevant heading", rep.ExtractedSections[0].SectionTitle)
	}
	if !strings.Contains(rep.SubsectionAnalysis[0].RefinedText, "first paragraph") {
		t.Errorf("refined text = %q", rep.SubsectionAnalysis[0].RefinedText)
	}
}

func TestRunIsolatesFailedDocuments(t *testing.T) {
	loader := &stubLoader{
		docs: map[string]*pdfdoc.Document{
			"/in/a.pdf": syntheticDoc("a.pdf", "Chef Recipes"),
			"/in/c.pdf": syntheticDoc("c.pdf", "Appendix"),
		},
		fail: map[string]error{"/in/b.pdf": errors.New("encrypted file")},
	}
	r := testRunner(loader)

	q := relevance.NewQuery("chef", "find recipes")
	res, err := r.Run(context.Background(), []string{"/in/a.pdf", "/in/b.pdf", "/in/c.pdf"}, q)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(res.Diagnostics))
	}
	d := res.Diagnostics[0]
	if d.Document != "b.pdf" || !strings.Contains(d.Error, "encrypted") {
		t.Errorf("diagnostic = %+v", d)
	}

	// The failed document still appears in metadata but contributes no
	// sections.
	rep := res.Report
	if got := rep.Metadata.InputDocuments; len(got) != 3 || got[1] != "b.pdf" {
		t.Errorf("input documents = %v", got)
	}
	for _, sec := range rep.ExtractedSections {
		if sec.Document == "b.pdf" {
			t.Errorf("failed document contributed section %+v", sec)
		}
	}
	if len(rep.ExtractedSections) != 2 {
		t.Errorf("got %d sections from surviving documents", len(rep.ExtractedSections))
	}
}

func TestRunProbeFailureIsolated(t *testing.T) {
	loader := &stubLoader{docs: map[string]*pdfdoc.Document{
		"/in/a.pdf": syntheticDoc("a.pdf", "Chef Recipes"),
	}}
	r := testRunner(loader)
	r.Probe = func(path string) (int, error) {
		if strings.HasSuffix(path, "bad.pdf") {
			return 0, errors.New("not a pdf")
		}
		return 1, nil
	}

	q := relevance.NewQuery("chef", "find recipes")
	res, err := r.Run(context.Background(), []string{"/in/bad.pdf", "/in/a.pdf"}, q)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Document != "bad.pdf" {
		t.Errorf("diagnostics = %+v", res.Diagnostics)
	}
	if len(res.Report.ExtractedSections) != 1 {
		t.Errorf("got %d sections", len(res.Report.ExtractedSections))
	}
}

func TestRunEmptyInput(t *testing.T) {
	r := testRunner(&stubLoader{})
	res, err := r.Run(context.Background(), nil, relevance.NewQuery("p", "j"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Report.ExtractedSections) != 0 || len(res.Report.SubsectionAnalysis) != 0 {
		t.Errorf("empty input produced sections: %+v", res.Report)
	}
}

func TestStatsSnapshot(t *testing.T) {
	s := NewStats(0)
	for _, ms := range []int64{10, 20, 30, 40} {
		s.Record(ms)
	}

	snap := s.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("count = %d", snap.Count)
	}
	if snap.MinMs != 10 || snap.MaxMs != 40 {
		t.Errorf("min/max = %d/%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 25 {
		t.Errorf("avg = %v", snap.AvgMs)
	}
	if snap.P50Ms != 25 {
		t.Errorf("p50 = %v", snap.P50Ms)
	}
}

func TestStatsNegativeClampedToZero(t *testing.T) {
	s := NewStats(0)
	s.Record(-5)
	if snap := s.Snapshot(); snap.MinMs != 0 {
		t.Errorf("min = %d, want 0", snap.MinMs)
	}
}

func TestStatsEmpty(t *testing.T) {
	s := NewStats(0)
	if snap := s.Snapshot(); snap.Count != 0 {
		t.Errorf("count = %d", snap.Count)
	}
}
