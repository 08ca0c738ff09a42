package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	require.NoError(t, runErr)

	return buf.String()
}

func TestVersionCmdDefaultOutput(t *testing.T) {
	out := captureStdout(t, (&VersionCmd{}).Run)

	assert.Contains(t, out, "Version:")
	assert.Contains(t, out, "Commit:")
	assert.Contains(t, out, "Date:")
}

func TestVersionCmdShortOutput(t *testing.T) {
	out := captureStdout(t, (&VersionCmd{Short: true}).Run)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 1)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestVersionCmdJSONOutput(t *testing.T) {
	out := captureStdout(t, (&VersionCmd{JSON: true}).Run)

	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	for _, field := range []string{"version", "commit", "date"} {
		assert.Contains(t, result, field)
	}
}

func TestCLIHasVersionCommand(t *testing.T) {
	cli := &CLI{}
	assert.IsType(t, VersionCmd{}, cli.Version)
}
