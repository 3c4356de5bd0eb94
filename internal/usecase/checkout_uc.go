package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/arjunvir/vastra/internal/domain"
)

type CheckoutUC struct {
	Orders domain.OrderRepo
	Carts  domain.CartRepo
}

// Checkout converts the owner's cart into an immutable order. The cart must
// have at least one item, all shipping fields must be present, and the
// whole transition commits atomically or not at all. The cart row is kept
// empty for reuse.
func (uc *CheckoutUC) Checkout(ctx context.Context, owner domain.OwnerKey, info domain.CheckoutInfo) (*domain.Order, error) {
	if err := validateCheckoutInfo(info); err != nil {
		return nil, err
	}
	cart, err := uc.Carts.FindByOwner(ctx, owner)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	return uc.Orders.CreateFromCart(ctx, cart.ID, owner.UserID, info)
}

func (uc *CheckoutUC) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return uc.Orders.FindByID(ctx, id)
}

func (uc *CheckoutUC) OrdersForUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return uc.Orders.ListByUser(ctx, userID)
}

func (uc *CheckoutUC) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return uc.Orders.ListAll(ctx)
}

// payment_method is stored as submitted; presence is the only validation.
func validateCheckoutInfo(info domain.CheckoutInfo) error {
	for _, f := range []string{
		info.FullName, info.Address, info.City,
		info.PostalCode, info.Phone, info.PaymentMethod,
	} {
		if strings.TrimSpace(f) == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
