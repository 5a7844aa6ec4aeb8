package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Kind describes the trip an order requires from the delivery agent.
type Kind int

const (
	// UnknownKind is the invalid zero value.
	UnknownKind Kind = iota
	// Delivery is a regular outbound customer order.
	Delivery
	// ReturnPickup is an approved return collected from the customer.
	ReturnPickup
	// AppealPickup is an approved appeal (complaint) pickup.
	AppealPickup
)

var kindNames = map[Kind]string{
	UnknownKind:  "UNKNOWN",
	Delivery:     "DELIVERY",
	ReturnPickup: "RETURN_PICKUP",
	AppealPickup: "APPEAL_PICKUP",
}

// ParseKind converts the wire name of a kind back to its value.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if k != UnknownKind && name == s {
			return k, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid order kind", s))
}

// Validate rejects UnknownKind and values outside the enumeration.
func (k Kind) Validate() error {
	if _, ok := kindNames[k]; !ok || k == UnknownKind {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid order kind", k))
	}
	return nil
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[UnknownKind]
}
