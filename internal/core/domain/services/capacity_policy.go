package services

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DefaultMaxActiveGroups is the number of READY or IN_PROGRESS groups one agent may hold.
const DefaultMaxActiveGroups = 5

// ErrAgentAtCapacity is matched by every AgentAtCapacityError.
var ErrAgentAtCapacity = errors.New("agent at capacity")

// AgentAtCapacityError reports the agent and its current load.
type AgentAtCapacityError struct {
	AgentID         kernel.UUID
	ActiveGroups    int
	MaxActiveGroups int
}

func (e *AgentAtCapacityError) Error() string {
	return fmt.Sprintf("%s: agent %s holds %d of %d active groups",
		ErrAgentAtCapacity, e.AgentID, e.ActiveGroups, e.MaxActiveGroups)
}

func (e *AgentAtCapacityError) Unwrap() error {
	return ErrAgentAtCapacity
}

// CapacityPolicy caps the number of active groups per agent.
//
// Business rules:
//   - READY and IN_PROGRESS groups count, COMPLETED groups do not
//   - An agent with count >= max is not eligible for a new group
//   - The limit is a single process-wide value
type CapacityPolicy struct {
	maxActiveGroups int
}

// NewCapacityPolicy creates a policy with the given limit, which must be positive.
func NewCapacityPolicy(maxActiveGroups int) (CapacityPolicy, error) {
	if maxActiveGroups <= 0 {
		return CapacityPolicy{}, errs.NewValueIsOutOfRangeError("maxActiveGroups", maxActiveGroups, 1, "unbounded")
	}
	return CapacityPolicy{maxActiveGroups: maxActiveGroups}, nil
}

// DefaultCapacityPolicy returns a policy using DefaultMaxActiveGroups.
func DefaultCapacityPolicy() CapacityPolicy {
	return CapacityPolicy{maxActiveGroups: DefaultMaxActiveGroups}
}

// MaxActiveGroups returns the configured limit.
func (p CapacityPolicy) MaxActiveGroups() int {
	if p.maxActiveGroups <= 0 {
		return DefaultMaxActiveGroups
	}
	return p.maxActiveGroups
}

// IsEligible reports whether activeGroups leaves room for one more group.
func (p CapacityPolicy) IsEligible(activeGroups int) bool {
	return activeGroups < p.MaxActiveGroups()
}

// Check returns an AgentAtCapacityError when the agent cannot take another group.
// The agent's ActiveGroupCount must have been computed under the agent lock.
func (p CapacityPolicy) Check(a *agent.Agent) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !p.IsEligible(a.ActiveGroupCount()) {
		return &AgentAtCapacityError{
			AgentID:         a.ID(),
			ActiveGroups:    a.ActiveGroupCount(),
			MaxActiveGroups: p.MaxActiveGroups(),
		}
	}
	return nil
}
