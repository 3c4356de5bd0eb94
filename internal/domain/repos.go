package domain

import (
	"context"

	"github.com/google/uuid"
)

type ProductRepo interface {
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindAvailableByID(ctx context.Context, id uuid.UUID) (*Product, error)
	NewArrivals(ctx context.Context, limit int) ([]Product, error)
	Save(ctx context.Context, p *Product) error
}

type CategoryRepo interface {
	All(ctx context.Context) ([]Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	ListWithCounts(ctx context.Context) ([]CategoryCount, error)
	Save(ctx context.Context, c *Category) error
}

type CartRepo interface {
	// GetOrCreate must create at most one cart per owner, even under
	// concurrent first-time requests.
	GetOrCreate(ctx context.Context, owner OwnerKey) (*Cart, error)
	FindByOwner(ctx context.Context, owner OwnerKey) (*Cart, error)
	// AddItem increments the (product, size) line if it exists, otherwise
	// inserts it. The read-modify-write runs in one transaction.
	AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int, size string) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, qty int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	Totals(ctx context.Context, cartID uuid.UUID) (CartTotals, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	// Merge folds the session-owned cart into the user-owned one and
	// removes the session cart.
	Merge(ctx context.Context, userID, sessionID uuid.UUID) error
}

type WishlistRepo interface {
	GetOrCreate(ctx context.Context, owner OwnerKey) (*Wishlist, error)
	FindByOwner(ctx context.Context, owner OwnerKey) (*Wishlist, error)
	Toggle(ctx context.Context, wishlistID, productID uuid.UUID) (ToggleAction, error)
	Merge(ctx context.Context, userID, sessionID uuid.UUID) error
}

type OrderRepo interface {
	// CreateFromCart atomically snapshots the cart into an order and clears
	// the cart items. It either commits the whole write or nothing.
	CreateFromCart(ctx context.Context, cartID uuid.UUID, userID *uuid.UUID, info CheckoutInfo) (*Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

type SessionRepo interface {
	Create(ctx context.Context) (*Session, error)
	Find(ctx context.Context, id uuid.UUID) (*Session, error)
	Touch(ctx context.Context, id uuid.UUID) error
}

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Save(ctx context.Context, u *User) error
}
