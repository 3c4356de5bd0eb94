package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/arjunvir/vastra/internal/domain"
)

type WishlistUC struct {
	Wishlists domain.WishlistRepo
	Products  domain.ProductRepo
}

func (uc *WishlistUC) GetOrCreate(ctx context.Context, owner domain.OwnerKey) (*domain.Wishlist, error) {
	return uc.Wishlists.GetOrCreate(ctx, owner)
}

func (uc *WishlistUC) Get(ctx context.Context, owner domain.OwnerKey) (*domain.Wishlist, error) {
	if _, err := uc.Wishlists.GetOrCreate(ctx, owner); err != nil {
		return nil, err
	}
	return uc.Wishlists.FindByOwner(ctx, owner)
}

// Toggle flips the product's membership and reports which way it went.
// Calling it twice is a no-op overall.
func (uc *WishlistUC) Toggle(ctx context.Context, owner domain.OwnerKey, productID uuid.UUID) (domain.ToggleAction, error) {
	if _, err := uc.Products.FindAvailableByID(ctx, productID); err != nil {
		return "", err
	}
	w, err := uc.Wishlists.GetOrCreate(ctx, owner)
	if err != nil {
		return "", err
	}
	return uc.Wishlists.Toggle(ctx, w.ID, productID)
}

func (uc *WishlistUC) MergeOnLogin(ctx context.Context, userID, sessionID uuid.UUID) error {
	return uc.Wishlists.Merge(ctx, userID, sessionID)
}
