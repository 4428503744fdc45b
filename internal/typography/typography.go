// Package typography builds a document's style histogram and derives the
// body style and the heading level map from it.
package typography

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/docsift/docsift/internal/pdfdoc"
)

// StyleKey identifies a text style by rounded font size and bold flag only.
// Font family, color and the fractional part of the size are discarded: two
// spans whose sizes differ by less than 0.5 collapse to the same key.
type StyleKey struct {
	Size int
	Bold bool
}

func (k StyleKey) String() string {
	if k.Bold {
		return fmt.Sprintf("%db", k.Size)
	}
	return fmt.Sprintf("%d", k.Size)
}

// KeyFor derives a StyleKey from a span's size and font name. Boldness is a
// case-insensitive substring match on the font descriptor, which catches the
// common forms ("Helvetica-Bold", "ABCDEF+TimesNewRoman-BoldMT", "bold").
func KeyFor(size float64, fontName string) StyleKey {
	return StyleKey{
		Size: int(math.Round(size)),
		Bold: strings.Contains(strings.ToLower(fontName), "bold"),
	}
}

// Histogram counts spans per StyleKey. Insertion order is preserved so that
// ties for the dominant style break deterministically in favor of the key
// first encountered in document scan order.
type Histogram struct {
	keys   []StyleKey
	counts map[StyleKey]int
}

// NewHistogram returns an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[StyleKey]int)}
}

// Add increments the count for key.
func (h *Histogram) Add(key StyleKey) {
	if _, ok := h.counts[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.counts[key]++
}

// Count returns the occurrence count for key.
func (h *Histogram) Count(key StyleKey) int { return h.counts[key] }

// Len returns the number of distinct styles.
func (h *Histogram) Len() int { return len(h.keys) }

// Body returns the dominant style: the key with the maximal count, first
// inserted wins on ties. ok is false for an empty histogram.
func (h *Histogram) Body() (body StyleKey, ok bool) {
	best := -1
	for _, k := range h.keys {
		if c := h.counts[k]; c > best {
			best = c
			body = k
			ok = true
		}
	}
	return body, ok
}

// Profile scans every span of every block of every page and accumulates the
// style histogram in document order.
func Profile(doc *pdfdoc.Document) *Histogram {
	h := NewHistogram()
	for _, page := range doc.Pages {
		for _, block := range page.Blocks {
			for _, line := range block.Lines {
				for _, span := range line.Spans {
					h.Add(KeyFor(span.FontSize, span.FontName))
				}
			}
		}
	}
	return h
}

// LevelMap assigns a heading level to each style visually distinguished from
// the body style.
type LevelMap struct {
	levels map[StyleKey]int
}

// qualifies reports whether key is a heading style relative to body: strictly
// larger, or same size but bold where the body is not.
func qualifies(key, body StyleKey) bool {
	if key.Size > body.Size {
		return true
	}
	return key.Size == body.Size && key.Bold && !body.Bold
}

// Levels derives the heading level map: qualifying styles ranked descending
// by (size, boldness) and numbered 1, 2, ... in that order. An empty
// histogram yields an empty map, so the document contributes no headings.
func (h *Histogram) Levels() *LevelMap {
	m := &LevelMap{levels: make(map[StyleKey]int)}
	body, ok := h.Body()
	if !ok {
		return m
	}

	var ranked []StyleKey
	for _, k := range h.keys {
		if qualifies(k, body) {
			ranked = append(ranked, k)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Size != ranked[j].Size {
			return ranked[i].Size > ranked[j].Size
		}
		return ranked[i].Bold && !ranked[j].Bold
	})
	for i, k := range ranked {
		m.levels[k] = i + 1
	}
	return m
}

// Level returns the 1-based heading level for key, ok=false when key is not
// a heading style.
func (m *LevelMap) Level(key StyleKey) (int, bool) {
	lvl, ok := m.levels[key]
	return lvl, ok
}

// Label returns the "H1", "H2", ... label for key, or "" when key is not a
// heading style.
func (m *LevelMap) Label(key StyleKey) string {
	lvl, ok := m.levels[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("H%d", lvl)
}

// Len returns the number of heading styles.
func (m *LevelMap) Len() int { return len(m.levels) }
