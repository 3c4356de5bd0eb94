package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arjunvir/vastra/internal/domain"
)

type WishlistRepo struct{ db *gorm.DB }

func NewWishlistRepo(db *gorm.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) GetOrCreate(ctx context.Context, owner domain.OwnerKey) (*domain.Wishlist, error) {
	if !owner.Valid() {
		return nil, domain.ErrInvalidInput
	}
	w := domain.Wishlist{ID: uuid.New(), UserID: owner.UserID, SessionID: owner.SessionID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&w).Error
	if err != nil {
		return nil, err
	}
	var out domain.Wishlist
	if err := r.db.WithContext(ctx).Scopes(ownerScope(owner)).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *WishlistRepo) FindByOwner(ctx context.Context, owner domain.OwnerKey) (*domain.Wishlist, error) {
	if !owner.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var w domain.Wishlist
	err := r.db.WithContext(ctx).Scopes(ownerScope(owner)).
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("created_at asc") }).
		Preload("Items.Product").
		First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Toggle flips membership for the product in one transaction: present
// becomes absent and absent becomes present, nothing in between.
func (r *WishlistRepo) Toggle(ctx context.Context, wishlistID, productID uuid.UUID) (domain.ToggleAction, error) {
	var action domain.ToggleAction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
			Delete(&domain.WishlistItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			action = domain.ToggleRemoved
			return nil
		}
		item := domain.WishlistItem{ID: uuid.New(), WishlistID: wishlistID, ProductID: productID}
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error
		if err != nil {
			return err
		}
		action = domain.ToggleAdded
		return nil
	})
	return action, err
}

func (r *WishlistRepo) Merge(ctx context.Context, userID, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src domain.Wishlist
		err := tx.Where("session_id = ?", sessionID).Preload("Items").First(&src).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(src.Items) > 0 {
			dst := domain.Wishlist{ID: uuid.New(), UserID: &userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dst).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).First(&dst).Error; err != nil {
				return err
			}
			for _, it := range src.Items {
				line := domain.WishlistItem{ID: uuid.New(), WishlistID: dst.ID, ProductID: it.ProductID}
				err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&line).Error
				if err != nil {
					return err
				}
			}
		}
		if err := tx.Where("wishlist_id = ?", src.ID).Delete(&domain.WishlistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Wishlist{}, "id = ?", src.ID).Error
	})
}
