package redislock_test

import (
	"testing"

	"dispatch/internal/adapters/out/redislock"

	"github.com/stretchr/testify/assert"
)

func TestNewLocker_RequiresClient(t *testing.T) {
	locker, err := redislock.NewLocker(nil, 0, 0)

	assert.Nil(t, locker)
	assert.Error(t, err)
}
