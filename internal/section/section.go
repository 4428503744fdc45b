// Package section extracts the body text belonging to a heading: the blocks
// between the heading's bottom edge and the next heading (or the end of the
// document), excluding boilerplate.
package section

import (
	"math"
	"strings"

	"github.com/docsift/docsift/internal/boilerplate"
	"github.com/docsift/docsift/internal/heading"
	"github.com/docsift/docsift/internal/pdfdoc"
)

// BodyText returns the space-joined texts of the blocks in cur's section.
//
// The section starts below cur's bounding box on cur's page. When next is
// non-nil it ends on next's page, bounded above by next's top edge; pages
// strictly between are included in full. When next is nil the section runs
// through the last page with no vertical bound. Bounds compare a block's top
// y strictly, so a block sitting exactly on a boundary is excluded.
func BodyText(doc *pdfdoc.Document, cur heading.Heading, next *heading.Heading, junk boilerplate.JunkSet) string {
	if len(doc.Pages) == 0 {
		return ""
	}

	endPage := len(doc.Pages)
	if next != nil {
		endPage = next.Page
	}
	if endPage > len(doc.Pages) {
		endPage = len(doc.Pages)
	}

	var parts []string
	for p := cur.Page; p <= endPage; p++ {
		if p < 1 || p > len(doc.Pages) {
			continue
		}
		page := &doc.Pages[p-1]

		lower := math.Inf(-1)
		if p == cur.Page {
			lower = cur.BBox.Bottom()
		}
		upper := math.Inf(1)
		if next != nil && p == next.Page {
			upper = next.BBox.Top()
		}

		for bi := range page.Blocks {
			block := &page.Blocks[bi]
			top := block.BBox.Top()
			if top <= lower || top >= upper {
				continue
			}
			text := block.FlatText()
			if text == "" || junk.Contains(text) {
				continue
			}
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
