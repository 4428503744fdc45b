// Package heading classifies text blocks as heading candidates using the
// document's heading level map and a set of structural filters.
package heading

import (
	"sort"
	"strings"

	"github.com/docsift/docsift/internal/boilerplate"
	"github.com/docsift/docsift/internal/pdfdoc"
	"github.com/docsift/docsift/internal/typography"
)

// MaxTitleWords is the upper bound on whitespace-delimited words for a block
// to remain a heading candidate. Headings are short.
const MaxTitleWords = 10

// rejectedSuffixes end sentences, not headings.
var rejectedSuffixes = []string{".", ":", ","}

// Heading is a classified heading with its source location. Score is filled
// in later by the relevance pass.
type Heading struct {
	Document string
	Title    string
	Page     int // 1-based
	BBox     pdfdoc.BBox
	Level    string
	Score    int
}

// Extract walks doc page by page, blocks in top-y order, and returns the
// headings in document order. A block is accepted when its full text passes
// the structural filters and its first span's style is a heading style.
//
// The seen set is scoped to this call: titles are case-insensitive-unique
// within one document, first occurrence wins. Blocks whose text is in junk
// are running headers or footers and are never promoted to headings.
func Extract(doc *pdfdoc.Document, levels *typography.LevelMap, junk boilerplate.JunkSet) []Heading {
	var out []Heading
	seen := make(map[string]struct{})

	for pi := range doc.Pages {
		page := &doc.Pages[pi]
		for bi := range page.Blocks {
			block := &page.Blocks[bi]
			fullText := block.FlatText()
			if !isCandidate(fullText) {
				continue
			}
			lower := strings.ToLower(fullText)
			if _, dup := seen[lower]; dup {
				continue
			}
			if junk.Contains(fullText) {
				continue
			}

			first := block.FirstSpan()
			if first == nil {
				continue
			}
			key := typography.KeyFor(first.FontSize, first.FontName)
			label := levels.Label(key)
			if label == "" {
				continue
			}

			out = append(out, Heading{
				Document: doc.Name,
				Title:    fullText,
				Page:     page.Number,
				BBox:     block.BBox,
				Level:    label,
			})
			seen[lower] = struct{}{}
		}
	}
	return out
}

// isCandidate applies the shape filters: non-empty, at most MaxTitleWords
// words, no sentence-ending punctuation.
func isCandidate(fullText string) bool {
	if fullText == "" {
		return false
	}
	if len(strings.Fields(fullText)) > MaxTitleWords {
		return false
	}
	for _, suffix := range rejectedSuffixes {
		if strings.HasSuffix(fullText, suffix) {
			return false
		}
	}
	return true
}

// SortByPosition orders headings by page, then top y. Extract already emits
// this order; callers use it to re-establish the invariant on merged or
// filtered slices before next-heading lookups.
func SortByPosition(headings []Heading) {
	sort.SliceStable(headings, func(i, j int) bool {
		if headings[i].Page != headings[j].Page {
			return headings[i].Page < headings[j].Page
		}
		return headings[i].BBox.Y0 < headings[j].BBox.Y0
	})
}

// Same reports value identity between two headings: same document, title,
// page and bounding box. Used to locate a ranked heading inside its
// document's ordered list.
func Same(a, b Heading) bool {
	return a.Document == b.Document &&
		a.Title == b.Title &&
		a.Page == b.Page &&
		a.BBox == b.BBox
}
