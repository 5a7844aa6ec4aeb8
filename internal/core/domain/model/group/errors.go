package group

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
)

var (
	// ErrDeliveryAlreadyStarted is matched by every DeliveryStartedError.
	ErrDeliveryAlreadyStarted = errors.New("delivery already started")
	// ErrInvalidTransition is matched by every InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyMember is returned when an order is attached to the group that already holds it.
	ErrAlreadyMember = errors.New("order is already a member of the group")
	// ErrNotMember is returned when detaching an order the group does not hold.
	ErrNotMember = errors.New("order is not a member of the group")
	// ErrAlreadyGrouped is returned when seeding a new group with an order that already
	// sits in another active group.
	ErrAlreadyGrouped = errors.New("order already belongs to another active group")
	// ErrGroupIsNotConstructed is returned when a DeliveryGroup was not built by a constructor.
	ErrGroupIsNotConstructed = errors.New("DeliveryGroup must be created via NewDeliveryGroup constructor")
)

// Side tells which group of a placement blocked it.
type Side string

const (
	// SideSource is the group the order would leave.
	SideSource Side = "source"
	// SideTarget is the group the order would join.
	SideTarget Side = "target"
)

// DeliveryStartedError names the frozen group and the side it was on.
type DeliveryStartedError struct {
	GroupID kernel.UUID
	Status  Status
	Side    Side
}

// NewDeliveryStartedError creates a DeliveryStartedError.
func NewDeliveryStartedError(groupID kernel.UUID, status Status, side Side) *DeliveryStartedError {
	return &DeliveryStartedError{GroupID: groupID, Status: status, Side: side}
}

func (e *DeliveryStartedError) Error() string {
	return fmt.Sprintf("%s: %s group %s is %s", ErrDeliveryAlreadyStarted, e.Side, e.GroupID, e.Status)
}

func (e *DeliveryStartedError) Unwrap() error {
	return ErrDeliveryAlreadyStarted
}

// InvalidTransitionError reports a rejected status change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
