package boilerplate

import (
	"testing"

	"github.com/docsift/docsift/internal/pdfdoc"
)

// docWithBlocks builds a document of pageCount pages where blocks maps a
// 0-based page index to its block texts.
func docWithBlocks(pageCount int, blocks map[int][]string) *pdfdoc.Document {
	doc := &pdfdoc.Document{Name: "doc.pdf"}
	for i := 0; i < pageCount; i++ {
		page := pdfdoc.Page{Number: i + 1}
		for _, text := range blocks[i] {
			page.Blocks = append(page.Blocks, pdfdoc.Block{Text: text})
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}

func TestDetectRepeatedOnEdgePages(t *testing.T) {
	header := "Annual Report 2024 Edition"
	doc := docWithBlocks(10, map[int][]string{
		0: {header, "unique opening paragraph with plenty of text"},
		1: {header},
	})

	junk := Detect(doc)
	if !junk.Contains(header) {
		t.Errorf("expected %q to be junk", header)
	}
	if junk.Contains("unique opening paragraph with plenty of text") {
		t.Error("unique text marked junk")
	}
}

func TestDetectSingleOccurrenceNotJunk(t *testing.T) {
	doc := docWithBlocks(10, map[int][]string{
		2: {"appears exactly once on an edge page"},
	})

	if junk := Detect(doc); len(junk) != 0 {
		t.Errorf("expected no junk, got %d entries", len(junk))
	}
}

func TestDetectIgnoresInteriorPages(t *testing.T) {
	repeated := "repeating interior watermark text"
	doc := docWithBlocks(10, map[int][]string{
		3: {repeated},
		6: {repeated},
	})

	if junk := Detect(doc); junk.Contains(repeated) {
		t.Error("interior-page repetition must not be junk")
	}
}

func TestDetectShortTextsNeverJunk(t *testing.T) {
	doc := docWithBlocks(10, map[int][]string{
		0: {"Page 3"},
		1: {"Page 3"},
		8: {"Page 3"},
	})

	if junk := Detect(doc); len(junk) != 0 {
		t.Errorf("short text marked junk: %v", junk)
	}
}

func TestDetectTrailingEdgeWindow(t *testing.T) {
	footer := "Confidential - internal use only"
	doc := docWithBlocks(10, map[int][]string{
		7: {footer},
		9: {footer},
	})

	if junk := Detect(doc); !junk.Contains(footer) {
		t.Errorf("expected %q on pages 8 and 10 to be junk", footer)
	}
}

func TestDetectShortDocumentAllPagesAreEdges(t *testing.T) {
	header := "Meeting notes, March session"
	doc := docWithBlocks(4, map[int][]string{
		1: {header},
		2: {header},
	})

	if junk := Detect(doc); !junk.Contains(header) {
		t.Error("every page of a short document is an edge page")
	}
}

func TestDetectNormalizesNewlines(t *testing.T) {
	doc := docWithBlocks(10, map[int][]string{
		0: {"Annual Report\n2024 Edition"},
		1: {"Annual Report 2024 Edition"},
	})

	junk := Detect(doc)
	if !junk.Contains("Annual Report 2024 Edition") {
		t.Error("newline and space variants of one text should match")
	}
}
