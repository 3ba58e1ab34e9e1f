package user

import "time"

// User is a registered account. Authentication lives outside the engine;
// the identity parameter on every operation is trusted as-is.
type User struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
}
