package zonefill

// Progress receives phase and step updates during a fill run and carries
// the cancellation signal back to the engine. Implementations must be safe
// for concurrent use: workers advance progress while a driving loop polls
// KeepRefreshing.
type Progress interface {
	// AdvancePhase starts a new named phase.
	AdvancePhase(name string)

	// SetMaxProgress sets the step count of the current phase.
	SetMaxProgress(n int)

	// AdvanceProgress records one completed step.
	AdvanceProgress()

	// Report emits a free-form status message.
	Report(msg string)

	// KeepRefreshing is polled by the driving loop roughly every 100ms;
	// it gives interactive frontends a chance to pump events. Returning
	// false requests cancellation.
	KeepRefreshing() bool

	// IsCancelled reports whether the run should stop. Workers check it
	// between units of work; a cancelled run leaves the board untouched.
	IsCancelled() bool
}

// NullProgress ignores all updates and never cancels.
type NullProgress struct{}

func (NullProgress) AdvancePhase(string) {}
func (NullProgress) SetMaxProgress(int)  {}
func (NullProgress) AdvanceProgress()    {}
func (NullProgress) Report(string)       {}
func (NullProgress) KeepRefreshing() bool { return true }
func (NullProgress) IsCancelled() bool    { return false }
