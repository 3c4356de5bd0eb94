package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arjunvir/vastra/internal/domain"
)

type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

func ownerScope(owner domain.OwnerKey) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if owner.UserID != nil {
			return q.Where("user_id = ?", *owner.UserID)
		}
		return q.Where("session_id = ?", *owner.SessionID)
	}
}

// GetOrCreate is a conditional insert-or-fetch: the insert is a no-op when
// the owner's unique index already holds a cart, so concurrent first-time
// requests converge on a single row.
func (r *CartRepo) GetOrCreate(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	if !owner.Valid() {
		return nil, domain.ErrInvalidInput
	}
	c := domain.Cart{ID: uuid.New(), UserID: owner.UserID, SessionID: owner.SessionID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error
	if err != nil {
		return nil, err
	}
	var out domain.Cart
	if err := r.db.WithContext(ctx).Scopes(ownerScope(owner)).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CartRepo) FindByOwner(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	if !owner.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var c domain.Cart
	err := r.db.WithContext(ctx).Scopes(ownerScope(owner)).
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("created_at asc") }).
		Preload("Items.Product").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// AddItem upserts against the (cart_id, product_id, size) unique index in a
// single statement, so concurrent adds for the same line cannot lose an
// increment.
func (r *CartRepo) AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int, size string) error {
	item := domain.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
		Size:      size,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "size"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).Create(&item).Error
		if err != nil {
			return err
		}
		return touchCart(tx, cartID)
	})
}

func (r *CartRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res *gorm.DB
		if qty > 0 {
			res = tx.Model(&domain.CartItem{}).
				Where("id = ? AND cart_id = ?", itemID, cartID).
				Update("quantity", qty)
		} else {
			// delete-on-zero is the documented policy, not an error
			res = tx.Where("id = ? AND cart_id = ?", itemID, cartID).
				Delete(&domain.CartItem{})
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return touchCart(tx, cartID)
	})
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&domain.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return touchCart(tx, cartID)
	})
}

func (r *CartRepo) Totals(ctx context.Context, cartID uuid.UUID) (domain.CartTotals, error) {
	var t domain.CartTotals
	err := r.db.WithContext(ctx).Model(&domain.CartItem{}).
		Select("COALESCE(SUM(cart_items.quantity), 0) AS item_count, COALESCE(SUM(cart_items.quantity * products.price), 0) AS total_price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Scan(&t).Error
	return t, err
}

func (r *CartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
}

// Merge folds a session cart into the user's cart, summing quantities per
// (product, size), then drops the session cart. No-op when the session has
// no cart.
func (r *CartRepo) Merge(ctx context.Context, userID, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src domain.Cart
		err := tx.Where("session_id = ?", sessionID).Preload("Items").First(&src).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(src.Items) > 0 {
			dst := domain.Cart{ID: uuid.New(), UserID: &userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dst).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).First(&dst).Error; err != nil {
				return err
			}
			for _, it := range src.Items {
				line := domain.CartItem{
					ID:        uuid.New(),
					CartID:    dst.ID,
					ProductID: it.ProductID,
					Quantity:  it.Quantity,
					Size:      it.Size,
				}
				err := tx.Clauses(clause.OnConflict{
					Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "size"}},
					DoUpdates: clause.Assignments(map[string]interface{}{
						"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
					}),
				}).Create(&line).Error
				if err != nil {
					return err
				}
			}
			if err := touchCart(tx, dst.ID); err != nil {
				return err
			}
		}
		if err := tx.Where("cart_id = ?", src.ID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Cart{}, "id = ?", src.ID).Error
	})
}

func touchCart(tx *gorm.DB, cartID uuid.UUID) error {
	return tx.Model(&domain.Cart{}).Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}
