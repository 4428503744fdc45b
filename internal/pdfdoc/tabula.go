package pdfdoc

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tsawler/tabula/layout"
	"github.com/tsawler/tabula/reader"
)

// TabulaLoader reads PDFs with the tabula reader and groups the extracted
// text fragments into blocks of lines.
type TabulaLoader struct {
	blockConfig layout.BlockConfig
}

// NewLoader returns a loader with tabula's default block detection settings.
func NewLoader() *TabulaLoader {
	return &TabulaLoader{blockConfig: layout.DefaultBlockConfig()}
}

// Load opens path, extracts every page and returns the materialized document.
// The underlying file is closed before Load returns.
func (l *TabulaLoader) Load(ctx context.Context, path string) (*Document, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer r.Close()

	pageCount, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	detector := layout.NewBlockDetectorWithConfig(l.blockConfig)
	doc := &Document{
		Name:  filepath.Base(path),
		Path:  path,
		Pages: make([]Page, 0, pageCount),
	}

	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pg, err := r.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		width, err := pg.Width()
		if err != nil {
			return nil, fmt.Errorf("page %d width: %w", i+1, err)
		}
		height, err := pg.Height()
		if err != nil {
			return nil, fmt.Errorf("page %d height: %w", i+1, err)
		}

		fragments, err := r.ExtractTextFragments(pg)
		if err != nil {
			return nil, fmt.Errorf("page %d text: %w", i+1, err)
		}

		page := Page{Number: i + 1, Width: width, Height: height}
		if len(fragments) > 0 {
			blockLayout := detector.Detect(fragments, width, height)
			page.Blocks = make([]Block, 0, len(blockLayout.Blocks))
			for _, lb := range blockLayout.Blocks {
				page.Blocks = append(page.Blocks, convertBlock(lb, height))
			}
		}
		sortBlocks(page.Blocks)
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// convertBlock maps a tabula block into the top-down model. The tabula BBox
// origin is bottom-left, so the top edge in our space is height - Top().
func convertBlock(lb layout.Block, pageHeight float64) Block {
	blk := Block{
		BBox: BBox{
			X0: lb.BBox.Left(),
			Y0: pageHeight - lb.BBox.Top(),
			X1: lb.BBox.Right(),
			Y1: pageHeight - lb.BBox.Bottom(),
		},
		Lines: make([]Line, 0, len(lb.Lines)),
	}

	lineTexts := make([]string, 0, len(lb.Lines))
	for _, frags := range lb.Lines {
		line := Line{Spans: make([]Span, 0, len(frags))}
		parts := make([]string, 0, len(frags))
		for _, f := range frags {
			line.Spans = append(line.Spans, Span{
				Text:     f.Text,
				FontSize: f.FontSize,
				FontName: f.FontName,
			})
			parts = append(parts, f.Text)
		}
		blk.Lines = append(blk.Lines, line)
		lineTexts = append(lineTexts, strings.Join(parts, " "))
	}
	blk.Text = strings.Join(lineTexts, "\n")
	return blk
}

// sortBlocks orders blocks by top y, then left x. Block detection already
// emits reading order for simple layouts; the sort makes the ordering an
// explicit guarantee rather than a side effect.
func sortBlocks(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].BBox.Y0 != blocks[j].BBox.Y0 {
			return blocks[i].BBox.Y0 < blocks[j].BBox.Y0
		}
		return blocks[i].BBox.X0 < blocks[j].BBox.X0
	})
}
