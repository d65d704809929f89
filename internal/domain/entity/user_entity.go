package entity

import (
	"time"
)

// User is a registered account.
// Password holds the bcrypt hash and must never appear in a response.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}
