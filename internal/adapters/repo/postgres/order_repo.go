package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunvir/vastra/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateFromCart runs the checkout transition in a single transaction:
// one Order row, one OrderItem per cart line with the total frozen from the
// price read inside the transaction, then the cart items are cleared. The
// cart row itself survives for reuse. Any failure rolls the whole write
// back.
func (r *OrderRepo) CreateFromCart(ctx context.Context, cartID uuid.UUID, userID *uuid.UUID, info domain.CheckoutInfo) (*domain.Order, error) {
	var order *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []domain.CartItem
		err := tx.Where("cart_id = ?", cartID).Order("created_at asc").
			Preload("Product").Find(&items).Error
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		o := domain.Order{
			ID:            uuid.New(),
			UserID:        userID,
			FullName:      info.FullName,
			Address:       info.Address,
			City:          info.City,
			PostalCode:    info.PostalCode,
			Phone:         info.Phone,
			PaymentMethod: info.PaymentMethod,
		}
		for _, it := range items {
			line := domain.OrderItem{
				ID:        uuid.New(),
				OrderID:   o.ID,
				ProductID: it.ProductID,
				Name:      it.Product.Name,
				Quantity:  it.Quantity,
				Size:      it.Size,
				Total:     it.Product.Price * float64(it.Quantity),
			}
			o.TotalPrice += line.Total
			o.Items = append(o.Items, line)
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var list []domain.Order
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Preload("Items").Order("created_at desc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	var list []domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Order("created_at desc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
