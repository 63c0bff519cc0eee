package model

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusOnTheWay       Status = "on_the_way"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// sequence is the strict forward fulfilment path. Skipping a step or
// moving backwards is never allowed.
var sequence = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForPickup,
	StatusOnTheWay,
	StatusDelivered,
}

// Next returns the status that follows in the fulfilment sequence and
// whether one exists.
func (s Status) Next() (Status, bool) {
	for i, status := range sequence {
		if status == s && i+1 < len(sequence) {
			return sequence[i+1], true
		}
	}

	return "", false
}

// Cancellable reports whether the order can still be cancelled. Everything
// before delivery can; delivered and cancelled orders cannot.
func (s Status) Cancellable() bool {
	return s != StatusDelivered && s != StatusCancelled && s.inSequence()
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) inSequence() bool {
	for _, status := range sequence {
		if status == s {
			return true
		}
	}

	return false
}
