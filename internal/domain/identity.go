package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal record materialized from a Google sign-in.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:140;uniqueIndex;not null"`
	Name      string    `gorm:"size:140"`
	CreatedAt time.Time
}

// Session is the server-side record behind an anonymous owner key. The
// cookie carries only the opaque id.
type Session struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time
	LastSeenAt time.Time
}
