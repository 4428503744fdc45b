// Package boilerplate finds running headers and footers: block texts that
// repeat across the edge pages of a document.
package boilerplate

import (
	"unicode/utf8"

	"github.com/docsift/docsift/internal/pdfdoc"
)

const (
	// edgeWindow is how many pages at each end of the document are examined.
	edgeWindow = 3
	// minChars is the minimum trimmed text length for a block to be
	// considered; shorter strings (page numbers, single words) repeat too
	// easily to be meaningful.
	minChars = 10
)

// JunkSet holds the flattened texts considered boilerplate for one document.
type JunkSet map[string]struct{}

// Contains reports whether the flattened form of text is boilerplate.
func (j JunkSet) Contains(text string) bool {
	_, ok := j[text]
	return ok
}

// Detect scans the first and last edgeWindow pages of doc and returns the
// texts appearing on two or more distinct edge pages. Pages strictly between
// the edges are never examined, regardless of document length.
func Detect(doc *pdfdoc.Document) JunkSet {
	pageCount := len(doc.Pages)
	seenOn := make(map[string]map[int]struct{})

	for i := range doc.Pages {
		if i >= edgeWindow && i < pageCount-edgeWindow {
			continue
		}
		for bi := range doc.Pages[i].Blocks {
			text := doc.Pages[i].Blocks[bi].FlatText()
			if utf8.RuneCountInString(text) <= minChars {
				continue
			}
			pages := seenOn[text]
			if pages == nil {
				pages = make(map[int]struct{})
				seenOn[text] = pages
			}
			pages[i] = struct{}{}
		}
	}

	junk := make(JunkSet)
	for text, pages := range seenOn {
		if len(pages) >= 2 {
			junk[text] = struct{}{}
		}
	}
	return junk
}
