package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewArrivalWindow is how long a product counts as a new arrival.
const NewArrivalWindow = 30 * 24 * time.Hour

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Slug        string    `gorm:"uniqueIndex;size:140;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
}

type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:180;not null"`
	Slug          string    `gorm:"uniqueIndex;size:140;not null"`
	CategoryID    uuid.UUID `gorm:"type:uuid;index"`
	Category      Category
	Description   string  `gorm:"type:text"`
	Price         float64 `gorm:"type:decimal(12,2);not null"`
	Sizes         string  `gorm:"size:140"`
	Featured      bool    `gorm:"default:false"`
	Available     bool    `gorm:"default:true;index"`
	StockQuantity int     `gorm:"default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SizeList splits the stored comma-delimited size labels, preserving order.
func (p *Product) SizeList() []string {
	if strings.TrimSpace(p.Sizes) == "" {
		return nil
	}
	parts := strings.Split(p.Sizes, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsNewArrival is derived from CreatedAt, never stored.
func (p *Product) IsNewArrival(now time.Time) bool {
	return now.Sub(p.CreatedAt) < NewArrivalWindow
}

type ProductFilter struct {
	CategorySlug string
	Featured     *bool
	Query        string
	Sort         string
	Page         int
	PageSize     int
}

// CategoryCount pairs a category with its available-product count.
type CategoryCount struct {
	Category
	ProductCount int64
}
