package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/arjunvir/vastra/internal/domain"
)

type CartUC struct {
	Carts    domain.CartRepo
	Products domain.ProductRepo
}

func (uc *CartUC) GetOrCreate(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	return uc.Carts.GetOrCreate(ctx, owner)
}

// Get returns the owner's cart with items and totals, creating an empty
// cart on first touch.
func (uc *CartUC) Get(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, domain.CartTotals, error) {
	cart, err := uc.Carts.GetOrCreate(ctx, owner)
	if err != nil {
		return nil, domain.CartTotals{}, err
	}
	full, err := uc.Carts.FindByOwner(ctx, owner)
	if err != nil {
		return nil, domain.CartTotals{}, err
	}
	totals, err := uc.Carts.Totals(ctx, cart.ID)
	if err != nil {
		return nil, domain.CartTotals{}, err
	}
	return full, totals, nil
}

// AddItem adds qty of (product, size) to the owner's cart. An existing line
// for the same product and size is incremented, not duplicated. Unavailable
// products read as not found.
func (uc *CartUC) AddItem(ctx context.Context, owner domain.OwnerKey, productID uuid.UUID, qty int, size string) (domain.CartTotals, error) {
	if qty < 1 {
		return domain.CartTotals{}, domain.ErrInvalidInput
	}
	if _, err := uc.Products.FindAvailableByID(ctx, productID); err != nil {
		return domain.CartTotals{}, err
	}
	cart, err := uc.Carts.GetOrCreate(ctx, owner)
	if err != nil {
		return domain.CartTotals{}, err
	}
	if err := uc.Carts.AddItem(ctx, cart.ID, productID, qty, size); err != nil {
		return domain.CartTotals{}, err
	}
	return uc.Carts.Totals(ctx, cart.ID)
}

// UpdateItemQuantity sets the line's quantity; zero or negative removes the
// line entirely.
func (uc *CartUC) UpdateItemQuantity(ctx context.Context, owner domain.OwnerKey, itemID uuid.UUID, qty int) (domain.CartTotals, error) {
	cart, err := uc.Carts.GetOrCreate(ctx, owner)
	if err != nil {
		return domain.CartTotals{}, err
	}
	if err := uc.Carts.UpdateItemQuantity(ctx, cart.ID, itemID, qty); err != nil {
		return domain.CartTotals{}, err
	}
	return uc.Carts.Totals(ctx, cart.ID)
}

func (uc *CartUC) RemoveItem(ctx context.Context, owner domain.OwnerKey, itemID uuid.UUID) (domain.CartTotals, error) {
	cart, err := uc.Carts.GetOrCreate(ctx, owner)
	if err != nil {
		return domain.CartTotals{}, err
	}
	if err := uc.Carts.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return domain.CartTotals{}, err
	}
	return uc.Carts.Totals(ctx, cart.ID)
}

func (uc *CartUC) Totals(ctx context.Context, owner domain.OwnerKey) (domain.CartTotals, error) {
	cart, err := uc.Carts.FindByOwner(ctx, owner)
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.CartTotals{}, nil
		}
		return domain.CartTotals{}, err
	}
	return uc.Carts.Totals(ctx, cart.ID)
}

// MergeOnLogin folds the anonymous session's cart into the user's so items
// added before signing in are not lost.
func (uc *CartUC) MergeOnLogin(ctx context.Context, userID, sessionID uuid.UUID) error {
	return uc.Carts.Merge(ctx, userID, sessionID)
}
