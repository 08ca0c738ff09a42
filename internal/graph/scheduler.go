package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/murkdown/murkdown/internal/murkerrs"
)

// Executor performs the actual work of a single task. Implementations
// typically close over a shared engine.Engine, ref.Resolver and
// writer, dispatching on t.Kind.
type Executor interface {
	Execute(ctx context.Context, t *Task) error
}

// Scheduler runs a Graph's tasks stage by stage, running every task
// within a stage concurrently, bounded by maxConcurrency in-flight at
// once. The first task error in a stage cancels the rest of that
// stage's in-flight work and aborts the run.
type Scheduler struct {
	graph          *Graph
	exec           Executor
	maxConcurrency int

	mu      sync.Mutex
	started map[string]bool // at-most-once in-flight dedup
}

// NewScheduler returns a Scheduler for graph, dispatching tasks to
// exec with at most maxConcurrency running at once. maxConcurrency <= 0
// is treated as 1.
func NewScheduler(g *Graph, exec Executor, maxConcurrency int) *Scheduler {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	return &Scheduler{
		graph:          g,
		exec:           exec,
		maxConcurrency: maxConcurrency,
		started:        make(map[string]bool),
	}
}

// Run executes every task in the graph in dependency order, returning
// the first error encountered. On error, the stage's context is
// cancelled for its remaining tasks, the stage is waited on, and no
// further stage is started.
func (s *Scheduler) Run(ctx context.Context) error {
	stages, err := s.graph.TopologicalSort()
	if err != nil {
		return err
	}

	for _, stage := range stages {
		if err := s.runStage(ctx, stage); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

// runStage runs every task ID in stage concurrently, bounded by
// maxConcurrency, fanning cancellation out to the rest of the stage's
// pending work the moment one task fails.
func (s *Scheduler) runStage(ctx context.Context, stage []string) error {
	if len(stage) == 1 {
		return s.runOne(ctx, stage[0])
	}

	stageCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, s.maxConcurrency)
	errCh := make(chan error, len(stage))

	var wg sync.WaitGroup

	for _, taskID := range stage {
		if !s.claim(taskID) {
			continue
		}

		wg.Add(1)

		go func(id string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := s.runOne(stageCtx, id); err != nil {
				errCh <- err
				cancel()
			}
		}(taskID)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}

	return nil
}

// claim marks taskID as in flight, returning false if it was already
// claimed (the at-most-once dedup the graph's shared references rely
// on: two stages should never run the same task twice).
func (s *Scheduler) claim(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started[taskID] {
		return false
	}

	s.started[taskID] = true

	return true
}

// runOne executes a single task, translating context cancellation into
// a murkerrs.CancelError so callers can distinguish "this task's
// dependency failed" from "this task itself failed".
func (s *Scheduler) runOne(ctx context.Context, taskID string) error {
	t, ok := s.graph.Tasks[taskID]
	if !ok {
		return fmt.Errorf("graph: unknown task %q", taskID)
	}

	select {
	case <-ctx.Done():
		return &murkerrs.CancelError{TaskKey: taskID, Upstream: true}
	default:
	}

	if err := s.exec.Execute(ctx, t); err != nil {
		return fmt.Errorf("%s: %w", t, err)
	}

	return nil
}
