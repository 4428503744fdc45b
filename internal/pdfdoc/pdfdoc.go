// Package pdfdoc defines the in-memory document model the analysis passes
// operate on, and a loader that builds it from PDF files.
//
// Coordinates are top-down: BBox.Y0 is the top edge, BBox.Y1 the bottom edge,
// with y increasing toward the foot of the page. The loader converts from the
// PDF bottom-left-origin space so that "blocks ordered by top y ascending"
// matches visual reading order.
package pdfdoc

import (
	"context"
	"strings"
)

// BBox is an axis-aligned rectangle in top-down page coordinates.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Top returns the top edge y coordinate.
func (b BBox) Top() float64 { return b.Y0 }

// Bottom returns the bottom edge y coordinate.
func (b BBox) Bottom() float64 { return b.Y1 }

// Span is a run of text sharing one font within a line.
type Span struct {
	Text     string
	FontSize float64
	FontName string
}

// Line is an ordered sequence of spans on one baseline.
type Line struct {
	Spans []Span
}

// Block is a paragraph-like group of lines with a bounding box.
// Text holds the line texts joined with newlines.
type Block struct {
	BBox  BBox
	Lines []Line
	Text  string
}

// FlatText returns the block text with newlines flattened to single spaces
// and surrounding whitespace trimmed. Every comparison of block texts in the
// pipeline (junk detection, junk filtering, heading titles) uses this form,
// so a block matches the same way everywhere.
func (b *Block) FlatText() string {
	return strings.TrimSpace(strings.Join(strings.Fields(b.Text), " "))
}

// FirstSpan returns the block's first span in reading order, or nil when the
// block has no spans.
func (b *Block) FirstSpan() *Span {
	for i := range b.Lines {
		if len(b.Lines[i].Spans) > 0 {
			return &b.Lines[i].Spans[0]
		}
	}
	return nil
}

// Page is one page of a document with its blocks ordered by top y ascending.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64
	Blocks []Block
}

// Document is a fully materialized PDF document. Once loaded it carries no
// open file handle; all passes read from this structure.
type Document struct {
	Name  string
	Path  string
	Pages []Page
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// Loader produces a Document from a PDF file on disk.
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
}
