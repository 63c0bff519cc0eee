package failure

import "fmt"

// InvalidTransitionError names the current and attempted lifecycle states
// of an illegal status change. It is wrapped in a conflict Failure so the
// HTTP layer maps it without losing the detail.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

// InvalidTransition returns a conflict Failure wrapping an
// InvalidTransitionError for the given entity and states.
func InvalidTransition(entity, from, to string) error {
	return ConflictFromError(&InvalidTransitionError{
		Entity: entity,
		From:   from,
		To:     to,
	})
}
