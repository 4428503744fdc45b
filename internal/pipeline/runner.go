// Package pipeline executes analysis runs: per-document extraction passes
// fanned out over a bounded worker pool, followed by a single merge, rank and
// assemble step.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/docsift/docsift/internal/boilerplate"
	"github.com/docsift/docsift/internal/heading"
	"github.com/docsift/docsift/internal/input"
	"github.com/docsift/docsift/internal/pdfdoc"
	"github.com/docsift/docsift/internal/relevance"
	"github.com/docsift/docsift/internal/report"
	"github.com/docsift/docsift/internal/typography"
)

// DocumentDiagnostic records a per-document failure. The document contributes
// no headings; the rest of the run is unaffected.
type DocumentDiagnostic struct {
	Document string `json:"document"`
	Error    string `json:"error"`
}

// Result is the outcome of one analysis run.
type Result struct {
	Report      *report.Report       `json:"report"`
	Diagnostics []DocumentDiagnostic `json:"diagnostics,omitempty"`
	Duration    time.Duration        `json:"-"`
}

// Runner executes analysis runs. The zero value is not usable; construct
// with NewRunner and override fields in tests as needed.
type Runner struct {
	Loader  pdfdoc.Loader
	Probe   func(path string) (int, error)
	Log     *slog.Logger
	Workers int
	TopK    int
	Stats   *Stats
}

// NewRunner returns a Runner with the production loader and probe.
func NewRunner(log *slog.Logger, workers, topK int) *Runner {
	if workers <= 0 {
		workers = 4
	}
	return &Runner{
		Loader:  pdfdoc.NewLoader(),
		Probe:   input.Probe,
		Log:     log,
		Workers: workers,
		TopK:    topK,
		Stats:   NewStats(time.Hour),
	}
}

// docResult carries one document's passes back to the merge step.
type docResult struct {
	name     string
	doc      *pdfdoc.Document
	junk     boilerplate.JunkSet
	headings []heading.Heading
	err      error
}

// Run analyzes paths against q and assembles the final report. Documents are
// processed concurrently with at most Workers in flight; each document's
// failure is isolated into a diagnostic. The merge step sees results in the
// order of paths, so output is deterministic regardless of scheduling.
func (r *Runner) Run(ctx context.Context, paths []string, q relevance.Query) (*Result, error) {
	start := time.Now()

	results := make([]docResult, len(paths))
	sem := make(chan struct{}, r.Workers)
	done := make(chan int, len(paths))

	for i, path := range paths {
		sem <- struct{}{}
		go func(i int, path string) {
			defer func() { <-sem }()
			results[i] = r.processDocument(ctx, path)
			done <- i
		}(i, path)
	}
	for range paths {
		<-done
	}

	asm := &report.Assembler{
		Docs:     make(map[string]*pdfdoc.Document),
		Junk:     make(map[string]boilerplate.JunkSet),
		Headings: make(map[string][]heading.Heading),
		TopK:     r.TopK,
	}
	res := &Result{}
	var inputs []string
	for _, dr := range results {
		inputs = append(inputs, dr.name)
		if dr.err != nil {
			res.Diagnostics = append(res.Diagnostics, DocumentDiagnostic{
				Document: dr.name,
				Error:    dr.err.Error(),
			})
			continue
		}
		asm.Docs[dr.name] = dr.doc
		asm.Junk[dr.name] = dr.junk
		asm.Headings[dr.name] = dr.headings
	}

	res.Report = asm.Build(q, inputs, time.Now())
	res.Duration = time.Since(start)
	return res, nil
}

// processDocument runs the per-document passes: probe, load, profile,
// boilerplate, headings. Any error is returned in the result and isolated by
// the caller.
func (r *Runner) processDocument(ctx context.Context, path string) docResult {
	name := filepath.Base(path)
	res := docResult{name: name}
	log := r.Log.With("document", name)
	start := time.Now()

	pages, err := r.Probe(path)
	if err != nil {
		log.Warn("document probe failed", "error", err)
		res.err = err
		return res
	}

	doc, err := r.Loader.Load(ctx, path)
	if err != nil {
		log.Warn("document load failed", "error", err)
		res.err = err
		return res
	}

	hist := typography.Profile(doc)
	levels := hist.Levels()
	junk := boilerplate.Detect(doc)
	headings := heading.Extract(doc, levels, junk)

	res.doc = doc
	res.junk = junk
	res.headings = headings

	elapsed := time.Since(start)
	if r.Stats != nil {
		r.Stats.Record(elapsed.Milliseconds())
	}
	log.Info("document processed",
		"pages", pages,
		"styles", hist.Len(),
		"heading_styles", levels.Len(),
		"headings", len(headings),
		"junk_texts", len(junk),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res
}

