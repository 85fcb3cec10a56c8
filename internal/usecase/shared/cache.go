package shared

import "autoshop/internal/domain/identity"

// PendingInvalidator drops cached read models after a write.
type PendingInvalidator interface {
	Invalidate(key identity.UserKey)
}
