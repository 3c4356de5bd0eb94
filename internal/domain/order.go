package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is an immutable snapshot created at checkout. Later product price
// changes never alter a stored order.
type Order struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	FullName      string     `gorm:"size:140;not null"`
	Address       string     `gorm:"size:255;not null"`
	City          string     `gorm:"size:100;not null"`
	PostalCode    string     `gorm:"size:20;not null"`
	Phone         string     `gorm:"size:50;not null"`
	PaymentMethod string     `gorm:"size:30;not null"`
	TotalPrice    float64    `gorm:"type:decimal(12,2);not null"`
	Items         []OrderItem
	CreatedAt     time.Time
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	Name      string    `gorm:"size:180;not null"`
	Quantity  int       `gorm:"not null"`
	Size      string    `gorm:"size:40;not null;default:''"`
	Total     float64   `gorm:"type:decimal(12,2);not null"`
}

// CheckoutInfo carries the shipping and payment fields captured at checkout.
// PaymentMethod is a stored label, not a gateway reference.
type CheckoutInfo struct {
	FullName      string
	Address       string
	City          string
	PostalCode    string
	Phone         string
	PaymentMethod string
}
