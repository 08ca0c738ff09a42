package graph

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	mu  sync.Mutex
	ran []string
}

func (r *recordingExecutor) Execute(_ context.Context, t *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ran = append(r.ran, t.ID)

	return nil
}

func TestSchedulerRunsAllTasksInOrder(t *testing.T) {
	g := New([]string{"a"}, nil)
	exec := &recordingExecutor{}
	s := NewScheduler(g, exec, 2)

	require.NoError(t, s.Run(context.Background()))
	assert.Len(t, exec.ran, 5)
	assert.Equal(t, TaskID("a", KindLoad), exec.ran[0])
	assert.Equal(t, TaskID("a", KindWrite), exec.ran[4])
}

var errBoom = errors.New("boom")

type failingExecutor struct {
	failOn string
}

func (f *failingExecutor) Execute(_ context.Context, t *Task) error {
	if t.ID == f.failOn {
		return errBoom
	}

	return nil
}

func TestSchedulerPropagatesTaskError(t *testing.T) {
	g := New([]string{"a"}, nil)
	exec := &failingExecutor{failOn: TaskID("a", KindParse)}
	s := NewScheduler(g, exec, 1)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
}

func TestSchedulerDoesNotRerunClaimedTask(t *testing.T) {
	g := New([]string{"a", "b"}, nil)
	exec := &recordingExecutor{}
	s := NewScheduler(g, exec, 4)

	require.NoError(t, s.Run(context.Background()))

	seen := make(map[string]int)
	for _, id := range exec.ran {
		seen[id]++
	}

	for id, count := range seen {
		assert.Equal(t, 1, count, "task %s ran %d times", id, count)
	}
}
