package progress

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/murkdown/murkdown/internal/graph"
)

// Reporter wraps a graph.Executor, sending Start/Done/Fail messages to
// a running Bubble Tea program around every task it executes. Used to
// drive the --interactive progress view without the scheduler itself
// knowing Bubble Tea exists.
type Reporter struct {
	Next    graph.Executor
	Program *tea.Program
}

// Execute satisfies graph.Executor.
func (r *Reporter) Execute(ctx context.Context, t *graph.Task) error {
	r.Program.Send(TaskStartMsg{TaskID: t.ID})

	if err := r.Next.Execute(ctx, t); err != nil {
		r.Program.Send(TaskFailMsg{TaskID: t.ID, Err: err})

		return err
	}

	r.Program.Send(TaskDoneMsg{TaskID: t.ID})

	return nil
}
