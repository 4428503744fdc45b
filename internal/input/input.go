// Package input discovers the PDF files and the query descriptor an analysis
// run operates on.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// ErrNoPDFs signals a startup precondition failure: the input directory
// contains no PDF files.
var ErrNoPDFs = errors.New("no pdf files found")

// ErrNoQuery signals a startup precondition failure: the query descriptor is
// missing or unparseable.
var ErrNoQuery = errors.New("query descriptor unavailable")

// Query is the persona/job descriptor read from the query file.
type Query struct {
	Persona     string `json:"persona"`
	JobToBeDone string `json:"job_to_be_done"`
}

// ListPDFs returns the paths of all PDF files directly inside dir, sorted by
// name for deterministic document order. It returns ErrNoPDFs when none are
// found.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPDFs, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadQuery reads the query descriptor JSON at path. Both fields must be
// present and non-empty.
func LoadQuery(path string) (Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %v", ErrNoQuery, err)
	}
	var q Query
	if err := json.Unmarshal(data, &q); err != nil {
		return Query{}, fmt.Errorf("%w: parse %s: %v", ErrNoQuery, path, err)
	}
	if strings.TrimSpace(q.Persona) == "" || strings.TrimSpace(q.JobToBeDone) == "" {
		return Query{}, fmt.Errorf("%w: %s must set persona and job_to_be_done", ErrNoQuery, path)
	}
	return q, nil
}

// Probe opens path with a lightweight PDF reader and returns its page count.
// It runs before the full extraction pass so unreadable files surface as
// per-document diagnostics instead of mid-pipeline failures.
func Probe(path string) (int, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return 0, fmt.Errorf("probe pdf: %w", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
