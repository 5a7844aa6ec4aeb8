package ports

import "dispatch/internal/core/domain/model/kernel"

func AgentLockKey(id kernel.UUID) string {
	return "agent:" + id.String()
}

func GroupLockKey(id kernel.UUID) string {
	return "group:" + id.String()
}

func OrderLockKey(id kernel.UUID) string {
	return "order:" + id.String()
}
