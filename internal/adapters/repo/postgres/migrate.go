package postgres

import (
	"gorm.io/gorm"

	"github.com/arjunvir/vastra/internal/domain"
)

// Migrate creates the schema plus the constraints AutoMigrate cannot
// express: one cart/wishlist per owner column, and the composite line
// uniqueness the add-or-increment upserts rely on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Category{}, &domain.Product{},
		&domain.Cart{}, &domain.CartItem{},
		&domain.Wishlist{}, &domain.WishlistItem{},
		&domain.Order{}, &domain.OrderItem{},
		&domain.Session{}, &domain.User{},
	); err != nil {
		return err
	}

	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_unique ON carts (user_id) WHERE user_id IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_session_unique ON carts (session_id) WHERE session_id IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlists_user_unique ON wishlists (user_id) WHERE user_id IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlists_session_unique ON wishlists (session_id) WHERE session_id IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_line_unique ON cart_items (cart_id, product_id, size)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlist_items_unique ON wishlist_items (wishlist_id, product_id)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
