package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docsift/docsift/internal/input"
	"github.com/docsift/docsift/internal/relevance"
)

// Orchestrator queues and executes analysis runs for the serve mode.
type Orchestrator struct {
	runs    *RunStore
	queue   chan *Run
	runner  *Runner
	log     *slog.Logger
	workers int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the orchestrator; call Start before Submit.
func NewOrchestrator(runner *Runner, log *slog.Logger, workers, queueSize int, runTTL time.Duration) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Orchestrator{
		runs:    NewRunStore(runTTL),
		queue:   make(chan *Run, queueSize),
		runner:  runner,
		log:     log,
		workers: workers,
	}
}

// Start launches worker goroutines and the store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case run, ok := <-o.queue:
					if !ok {
						return
					}
					o.process(workerCtx, run)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.runs.Cleanup()
			}
		}
	}()
}

// Stop drains the workers and waits for them to exit.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a run for processing.
func (o *Orchestrator) Submit(run *Run) error {
	o.runs.Put(run)
	select {
	case o.queue <- run:
		return nil
	default:
		run.AddError("queue full")
		run.SetStatus(StatusFailed)
		return fmt.Errorf("run queue is full (%d)", cap(o.queue))
	}
}

// Get returns a run by id, nil when unknown or evicted.
func (o *Orchestrator) Get(id string) *Run {
	return o.runs.Get(id)
}

// QueueDepth returns the current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats exposes the runner's processing stats.
func (o *Orchestrator) Stats() *Stats {
	return o.runner.Stats
}

// process executes one run end to end. Precondition failures (no PDFs in the
// requested directory) fail the run, not the server.
func (o *Orchestrator) process(ctx context.Context, run *Run) {
	log := o.log.With("run_id", run.ID, "input_dir", run.InputDir)
	run.SetStatus(StatusProcessing)

	paths, err := input.ListPDFs(run.InputDir)
	if err != nil {
		log.Error("run precondition failed", "error", err)
		run.AddError(err.Error())
		run.SetStatus(StatusFailed)
		return
	}

	q := relevance.NewQuery(run.Persona, run.JobToBeDone)
	res, err := o.runner.Run(ctx, paths, q)
	if err != nil {
		log.Error("run failed", "error", err)
		run.AddError(err.Error())
		run.SetStatus(StatusFailed)
		return
	}

	run.SetResult(res)
	log.Info("run completed",
		"documents", len(paths),
		"sections", len(res.Report.ExtractedSections),
		"diagnostics", len(res.Diagnostics),
		"duration_ms", res.Duration.Milliseconds(),
	)
}
