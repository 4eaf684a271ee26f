package models

import (
	"time"
)

// IssuedToken is a signed session token handed out on login
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
