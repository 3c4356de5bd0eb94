package domain

import (
	"time"

	"github.com/google/uuid"
)

type Wishlist struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	SessionID *uuid.UUID `gorm:"type:uuid"`
	Items     []WishlistItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WishlistItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	WishlistID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	Product    Product
	CreatedAt  time.Time
}

type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)
