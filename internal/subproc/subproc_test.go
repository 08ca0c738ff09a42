package subproc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunnerCapturesStdout(t *testing.T) {
	out, err := ShellRunner{}.Run(context.Background(), t.TempDir(), "echo hello", "")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestShellRunnerReportsNonZeroExit(t *testing.T) {
	_, err := ShellRunner{}.Run(context.Background(), t.TempDir(), "exit 3", "")
	require.Error(t, err)
}
