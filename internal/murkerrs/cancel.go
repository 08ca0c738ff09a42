package murkerrs

// CancelError indicates cooperative cancellation reached a task, either
// because the root build was cancelled or because a dependency it was
// waiting on failed or was itself cancelled.
type CancelError struct {
	TaskKey    string
	Upstream   bool // true if caused by a dependency, not the root signal
	UpstreamOf string
}

func (e *CancelError) Error() string {
	if e.Upstream {
		return "task " + e.TaskKey + ": upstream " + e.UpstreamOf + " cancelled"
	}

	return "task " + e.TaskKey + ": cancelled"
}
