package subproc

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls int32
}

func (c *countingRunner) Run(_ context.Context, _, commandLine, _ string) (string, error) {
	atomic.AddInt32(&c.calls, 1)

	return "out:" + commandLine, nil
}

func TestDedupRunnerCollapsesConcurrentIdenticalCommands(t *testing.T) {
	inner := &countingRunner{}
	d := NewDedupRunner(inner)

	var wg sync.WaitGroup

	results := make([]string, 8)

	for i := range results {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			out, err := d.Run(context.Background(), "/tmp", "echo hi", "")
			require.NoError(t, err)
			results[idx] = out
		}(i)
	}

	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "out:echo hi", r)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
}

func TestDedupRunnerRunsDistinctCommandsSeparately(t *testing.T) {
	inner := &countingRunner{}
	d := NewDedupRunner(inner)

	out1, err := d.Run(context.Background(), "/tmp", "echo a", "")
	require.NoError(t, err)
	out2, err := d.Run(context.Background(), "/tmp", "echo b", "")
	require.NoError(t, err)

	assert.NotEqual(t, out1, out2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}
