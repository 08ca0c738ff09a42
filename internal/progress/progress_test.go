package progress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkdown/murkdown/internal/theme"
)

func testTheme(t *testing.T) *theme.Theme {
	t.Helper()

	th, err := theme.Get("default")
	require.NoError(t, err)

	return th
}

func TestNewSeedsPendingRows(t *testing.T) {
	m := New([]string{"a#load", "a#parse"}, testTheme(t))

	assert.Len(t, m.rows, 2)
	assert.Equal(t, StatusPending, m.rows[0].Status)
}

func TestUpdateTracksTaskLifecycle(t *testing.T) {
	m := New([]string{"a#load"}, testTheme(t))

	updated, _ := m.Update(TaskStartMsg{TaskID: "a#load"})
	m = updated.(*Model)
	assert.Equal(t, StatusRunning, m.rows[0].Status)

	updated, cmd := m.Update(TaskDoneMsg{TaskID: "a#load"})
	m = updated.(*Model)
	assert.Equal(t, StatusDone, m.rows[0].Status)
	assert.NotNil(t, cmd)
	assert.True(t, m.done)
}

func TestUpdateRecordsTaskFailure(t *testing.T) {
	m := New([]string{"a#load"}, testTheme(t))

	boom := errors.New("boom")
	updated, cmd := m.Update(TaskFailMsg{TaskID: "a#load", Err: boom})
	m = updated.(*Model)

	assert.Equal(t, StatusFailed, m.rows[0].Status)
	assert.Equal(t, boom, m.rows[0].Err)
	assert.NotNil(t, cmd)
}

func TestViewRendersWithoutPanicking(t *testing.T) {
	m := New([]string{"a#load", "a#write"}, testTheme(t))
	out := m.View()
	assert.Contains(t, out, "a#load")
	assert.Contains(t, out, "a#write")
}

