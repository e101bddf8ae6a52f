package order

import "strings"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var statuses = map[Status]struct{}{
	StatusPending:   {},
	StatusConfirmed: {},
	StatusPreparing: {},
	StatusShipped:   {},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus accepts any known status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statuses[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := statuses[s]
	return ok
}
