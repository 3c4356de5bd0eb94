package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	SessionID *uuid.UUID `gorm:"type:uuid"`
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Product   Product
	Quantity  int    `gorm:"not null"`
	Size      string `gorm:"size:40;not null;default:''"`
	CreatedAt time.Time
}

// LineTotal is price × quantity at the current product price.
func (i *CartItem) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// CartTotals is always computed from the current items, never cached.
type CartTotals struct {
	ItemCount  int     `json:"cart_count"`
	TotalPrice float64 `json:"cart_total"`
}
