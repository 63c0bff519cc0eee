package availability

import (
	"fmt"
	"time"
)

// Window is the half-open interval [Start, End) a booking occupies.
type Window struct {
	Start time.Time
	End   time.Time
}

// InvalidWindowError rejects zero-length or inverted windows before any
// conflict checking runs.
type InvalidWindowError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window: end %s must be after start %s", e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

// Validate returns an InvalidWindowError when End <= Start.
func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return &InvalidWindowError{Start: w.Start, End: w.End}
	}

	return nil
}

// Overlaps applies the half-open overlap rule: two windows conflict iff
// a.Start < b.End and a.End > b.Start. A booking ending exactly when
// another starts does not conflict.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
