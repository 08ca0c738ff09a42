package subproc

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DedupRunner wraps a Runner so that concurrent EXEC commands sharing
// the same (dir, commandLine, stdin) key collapse into one in-flight
// execution, matching the at-most-one-in-flight-per-key rule the
// scheduler applies to every other build task. A successful result is
// also remembered for the runner's lifetime, so a later call with the
// same key reuses it instead of running the command again; failures
// are not remembered. Grounded on the singleflight.Group caching idiom
// used for deduplicated lookups elsewhere in the pack.
type DedupRunner struct {
	inner Runner
	group singleflight.Group
	done  sync.Map // key -> stdout of a successful run
}

// NewDedupRunner wraps inner with singleflight-based deduplication.
func NewDedupRunner(inner Runner) *DedupRunner {
	return &DedupRunner{inner: inner}
}

// Run implements Runner. The key is the directory, command line, and
// stdin verbatim: two EXEC commands only share a result if all three
// match exactly.
func (d *DedupRunner) Run(ctx context.Context, dir, commandLine, stdin string) (string, error) {
	key := dir + "\x00" + commandLine + "\x00" + stdin

	v, err, _ := d.group.Do(key, func() (any, error) {
		if out, ok := d.done.Load(key); ok {
			return out, nil
		}

		out, err := d.inner.Run(ctx, dir, commandLine, stdin)
		if err != nil {
			return nil, err
		}

		d.done.Store(key, out)

		return out, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}
