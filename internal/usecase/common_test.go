package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arjunvir/vastra/internal/adapters/repo/postgres"
	"github.com/arjunvir/vastra/internal/domain"
)

type testEnv struct {
	db       *gorm.DB
	catalog  *CatalogUC
	cart     *CartUC
	wishlist *WishlistUC
	checkout *CheckoutUC
}

// newTestEnv wires the usecases against an in-memory sqlite store. The pool
// is pinned to one connection so the database survives for the whole test
// and concurrent calls serialize at the driver.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prodRepo := postgres.NewProductRepo(db)
	catRepo := postgres.NewCategoryRepo(db)
	cartRepo := postgres.NewCartRepo(db)
	wishRepo := postgres.NewWishlistRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	return &testEnv{
		db:       db,
		catalog:  &CatalogUC{Products: prodRepo, Categories: catRepo},
		cart:     &CartUC{Carts: cartRepo, Products: prodRepo},
		wishlist: &WishlistUC{Wishlists: wishRepo, Products: prodRepo},
		checkout: &CheckoutUC{Orders: orderRepo, Carts: cartRepo},
	}
}

func (e *testEnv) seedProduct(t *testing.T, name string, price float64, available bool) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Slug:      name + "-" + uuid.NewString()[:8],
		Price:     price,
		Sizes:     "S,M,L",
		Available: available,
	}
	if err := e.db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func (e *testEnv) seedCategory(t *testing.T, name, slug string) *domain.Category {
	t.Helper()
	c := &domain.Category{ID: uuid.New(), Name: name, Slug: slug}
	if err := e.db.Create(c).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return c
}

func sessionOwner() domain.OwnerKey {
	return domain.SessionOwner(uuid.New())
}

func ctx() context.Context { return context.Background() }
