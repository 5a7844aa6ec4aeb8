package agent_test

import (
	"testing"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgent(t *testing.T) {
	contact, err := agent.NewContact(" +1 555 0100 ", "kim@example.com")
	require.NoError(t, err)

	t.Run("should create agent without groups", func(t *testing.T) {
		id := kernel.NewUUID()

		a, err := agent.NewAgent(id, "shop-1", "Kim", contact)

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.True(t, a.ID().IsEqual(id))
		assert.Equal(t, "Kim", a.Name())
		assert.Equal(t, "+1 555 0100", a.Contact().Phone())
		assert.Equal(t, "kim@example.com", a.Contact().Email())
		assert.Zero(t, a.ActiveGroupCount())
	})

	t.Run("should require name", func(t *testing.T) {
		a, err := agent.NewAgent(kernel.NewUUID(), "shop-1", "", contact)

		assert.Nil(t, a)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should join errors", func(t *testing.T) {
		a, err := agent.NewAgent(kernel.UUID{}, "", "", contact)

		assert.Nil(t, a)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "shopId")
		assert.Contains(t, err.Error(), "name")
	})
}

func TestRestoreAgent(t *testing.T) {
	t.Run("should keep active group count", func(t *testing.T) {
		a, err := agent.RestoreAgent(kernel.NewUUID(), "shop-1", "Kim", agent.Contact{}, 4)

		require.NoError(t, err)
		assert.Equal(t, 4, a.ActiveGroupCount())
	})

	t.Run("should reject negative count", func(t *testing.T) {
		a, err := agent.RestoreAgent(kernel.NewUUID(), "shop-1", "Kim", agent.Contact{}, -1)

		assert.Nil(t, a)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestNewContact(t *testing.T) {
	t.Run("should accept empty contact", func(t *testing.T) {
		c, err := agent.NewContact("", "")

		require.NoError(t, err)
		assert.Empty(t, c.Email())
	})

	t.Run("should reject malformed email", func(t *testing.T) {
		_, err := agent.NewContact("", "not-an-email")

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestAgent_UpdateProfile(t *testing.T) {
	a, _ := agent.NewAgent(kernel.NewUUID(), "shop-1", "Kim", agent.Contact{})
	contact, _ := agent.NewContact("123", "")

	require.NoError(t, a.UpdateProfile("Kim Lee", contact))
	assert.Equal(t, "Kim Lee", a.Name())
	assert.Equal(t, "123", a.Contact().Phone())

	require.Error(t, a.UpdateProfile(" ", contact))
	assert.Equal(t, "Kim Lee", a.Name())
}

func TestAgent_Validate(t *testing.T) {
	var nilAgent *agent.Agent
	var zero agent.Agent

	assert.Equal(t, agent.ErrAgentIsNotConstructed, nilAgent.Validate())
	assert.Equal(t, agent.ErrAgentIsNotConstructed, zero.Validate())
}
