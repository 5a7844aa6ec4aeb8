package group

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery group.
type Status int

const (
	// Unknown is the invalid zero value.
	Unknown Status = iota
	// Ready groups accept and release orders.
	Ready
	// InProgress groups are on the road; membership is frozen.
	InProgress
	// Completed is terminal.
	Completed
)

var statusNames = map[Status]string{
	Unknown:    "UNKNOWN",
	Ready:      "READY",
	InProgress: "IN_PROGRESS",
	Completed:  "COMPLETED",
}

// ParseStatus converts the wire name back to a Status.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if st != Unknown && name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid group status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// Validate rejects Unknown and values outside the enumeration.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid group status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed
}

// IsActive reports whether a group in this status counts against its agent's capacity.
func (s Status) IsActive() bool {
	return s == Ready || s == InProgress
}

// CanTransitionTo checks the forward-only edge from s to next.
func (s Status) CanTransitionTo(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}
	switch {
	case s == Ready && next == InProgress:
		return nil
	case s == InProgress && next == Completed:
		return nil
	default:
		return NewInvalidTransitionError(s, next)
	}
}
