package outcome

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Reason is the closed set of causes for skipping an order.
type Reason string

const (
	ReasonAgentAtCapacity        Reason = "AgentAtCapacity"
	ReasonDeliveryAlreadyStarted Reason = "DeliveryAlreadyStarted"
	ReasonNotFound               Reason = "NotFound"
	ReasonInvalidTransition      Reason = "InvalidTransition"
	ReasonAlreadyMember          Reason = "AlreadyMember"
	ReasonAlreadyGrouped         Reason = "AlreadyGrouped"
	ReasonCancelled              Reason = "Cancelled"
	ReasonBusy                   Reason = "Busy"
)

var reasons = map[Reason]struct{}{
	ReasonAgentAtCapacity:        {},
	ReasonDeliveryAlreadyStarted: {},
	ReasonNotFound:               {},
	ReasonInvalidTransition:      {},
	ReasonAlreadyMember:          {},
	ReasonAlreadyGrouped:         {},
	ReasonCancelled:              {},
	ReasonBusy:                   {},
}

// Validate rejects values outside the closed set.
func (r Reason) Validate() error {
	if _, ok := reasons[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("reason", fmt.Errorf("%q is not a skip reason", string(r)))
	}
	return nil
}

func (r Reason) String() string {
	return string(r)
}
