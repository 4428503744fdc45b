package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// RunStatus is the state of a queued analysis run.
type RunStatus string

const (
	StatusQueued     RunStatus = "queued"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Run tracks one submitted analysis in serve mode.
type Run struct {
	mu sync.Mutex

	ID          string
	Status      RunStatus
	InputDir    string
	Persona     string
	JobToBeDone string

	Result *Result
	Errors []string

	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// RunSnapshot is a consistent copy of a Run for serialization.
type RunSnapshot struct {
	ID          string      `json:"run_id"`
	Status      RunStatus   `json:"status"`
	InputDir    string      `json:"input_dir"`
	Persona     string      `json:"persona"`
	JobToBeDone string      `json:"job_to_be_done"`
	Result      *Result     `json:"result,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
	SubmittedAt time.Time   `json:"submitted_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewRun builds a queued run with a derived id.
func NewRun(inputDir, persona, job string) *Run {
	now := time.Now()
	return &Run{
		ID:          runID(inputDir, persona, job, now),
		Status:      StatusQueued,
		InputDir:    inputDir,
		Persona:     persona,
		JobToBeDone: job,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
}

// runID derives a short unique id from the request and submission time.
func runID(inputDir, persona, job string, now time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d", inputDir, persona, job, now.UnixNano())))
	return hex.EncodeToString(sum[:])[:20]
}

// SetStatus updates the run state atomically.
func (r *Run) SetStatus(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.UpdatedAt = time.Now()
}

// SetResult records a completed result.
func (r *Run) SetResult(res *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Result = res
	r.Status = StatusCompleted
	r.UpdatedAt = time.Now()
}

// AddError records a failure message.
func (r *Run) AddError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
	r.UpdatedAt = time.Now()
}

// Snapshot returns a consistent copy for serialization.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RunSnapshot{
		ID:          r.ID,
		Status:      r.Status,
		InputDir:    r.InputDir,
		Persona:     r.Persona,
		JobToBeDone: r.JobToBeDone,
		Result:      r.Result,
		Errors:      append([]string(nil), r.Errors...),
		SubmittedAt: r.SubmittedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// RunStore is a thread-safe in-memory run registry with TTL eviction.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
	ttl  time.Duration
}

func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{
		runs: make(map[string]*Run),
		ttl:  ttl,
	}
}

func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *RunStore) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

// Cleanup removes runs idle longer than the TTL.
func (s *RunStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, run := range s.runs {
		run.mu.Lock()
		expired := now.Sub(run.UpdatedAt) > s.ttl
		run.mu.Unlock()
		if expired {
			delete(s.runs, id)
		}
	}
}
