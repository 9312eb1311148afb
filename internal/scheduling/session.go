package scheduling

// Window is an inclusive range of slot numbers forming a half-day session.
type Window struct {
	Start int
	End   int
}

// Contains reports whether the slot-number range [start, end] lies fully
// inside the window.
func (w Window) Contains(start, end int) bool {
	return start >= w.Start && end <= w.End
}

// SessionWindows holds the two half-day sessions multi-hour placements must
// not straddle. The lunch gap between them is never enforced directly; a
// range that would cross it necessarily leaves both windows.
type SessionWindows struct {
	Morning   Window
	Afternoon Window
}

// DefaultSessions returns the standard six-period day: three slots before
// lunch and three after.
func DefaultSessions() SessionWindows {
	return SessionWindows{
		Morning:   Window{Start: 1, End: 3},
		Afternoon: Window{Start: 4, End: 6},
	}
}
