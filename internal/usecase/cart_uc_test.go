package usecase

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/arjunvir/vastra/internal/domain"
)

func TestCartGetOrCreateIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()

	first, err := e.cart.GetOrCreate(ctx(), owner)
	if err != nil {
		t.Fatalf("first get-or-create: %v", err)
	}
	second, err := e.cart.GetOrCreate(ctx(), owner)
	if err != nil {
		t.Fatalf("second get-or-create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same cart, got %s and %s", first.ID, second.ID)
	}
}

func TestCartAddItemIncrementsExistingLine(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()
	p := e.seedProduct(t, "Oxford Shirt", 100, true)

	if _, err := e.cart.AddItem(ctx(), owner, p.ID, 2, "M"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	totals, err := e.cart.AddItem(ctx(), owner, p.ID, 3, "M")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if totals.ItemCount != 5 {
		t.Fatalf("expected 5 items, got %d", totals.ItemCount)
	}

	cart, _, err := e.cart.Get(ctx(), owner)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestCartAddItemDifferentSizesAreSeparateLines(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()
	p := e.seedProduct(t, "Oxford Shirt", 100, true)

	if _, err := e.cart.AddItem(ctx(), owner, p.ID, 1, "M"); err != nil {
		t.Fatalf("add M: %v", err)
	}
	if _, err := e.cart.AddItem(ctx(), owner, p.ID, 1, "L"); err != nil {
		t.Fatalf("add L: %v", err)
	}
	cart, _, err := e.cart.Get(ctx(), owner)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(cart.Items))
	}
}

func TestCartAddItemRejectsUnavailableProduct(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()
	p := e.seedProduct(t, "Discontinued Jacket", 500, false)

	if _, err := e.cart.AddItem(ctx(), owner, p.ID, 1, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unavailable product, got %v", err)
	}
	if _, err := e.cart.AddItem(ctx(), owner, uuid.New(), 1, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing product, got %v", err)
	}
}

func TestCartAddItemRejectsNonPositiveQuantity(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()
	p := e.seedProduct(t, "Oxford Shirt", 100, true)

	if _, err := e.cart.AddItem(ctx(), owner, p.ID, 0, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for qty 0, got %v", err)
	}
	if _, err := e.cart.AddItem(ctx(), owner, p.ID, -2, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative qty, got %v", err)
	}
}

func TestCartUpdateQuantityZeroOrNegativeDeletesLine(t *testing.T) {
	for _, qty := range []int{0, -3} {
		e := newTestEnv(t)
		owner := sessionOwner()
		p := e.seedProduct(t, "Oxford Shirt", 100, true)

		if _, err := e.cart.AddItem(ctx(), owner, p.ID, 2, "M"); err != nil {
			t.Fatalf("add: %v", err)
		}
		cart, _, err := e.cart.Get(ctx(), owner)
		if err != nil {
			t.Fatalf("get cart: %v", err)
		}
		totals, err := e.cart.UpdateItemQuantity(ctx(), owner, cart.Items[0].ID, qty)
		if err != nil {
			t.Fatalf("update to %d: %v", qty, err)
		}
		if totals.ItemCount != 0 {
			t.Fatalf("expected empty cart after update to %d, got %d items", qty, totals.ItemCount)
		}
		cart, _, err = e.cart.Get(ctx(), owner)
		if err != nil {
			t.Fatalf("get cart: %v", err)
		}
		if len(cart.Items) != 0 {
			t.Fatalf("expected line removed after update to %d", qty)
		}
	}
}

func TestCartUpdateQuantitySetsValue(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()
	p := e.seedProduct(t, "Oxford Shirt", 100, true)

	if _, err := e.cart.AddItem(ctx(), owner, p.ID, 1, "M"); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, _, err := e.cart.Get(ctx(), owner)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	totals, err := e.cart.UpdateItemQuantity(ctx(), owner, cart.Items[0].ID, 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if totals.ItemCount != 4 || totals.TotalPrice != 400 {
		t.Fatalf("expected 4 items for 400, got %d for %.2f", totals.ItemCount, totals.TotalPrice)
	}
}

func TestCartUpdateQuantityUnknownItem(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()

	if _, err := e.cart.UpdateItemQuantity(ctx(), owner, uuid.New(), 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCartRemoveItem(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()
	p := e.seedProduct(t, "Oxford Shirt", 100, true)

	if _, err := e.cart.AddItem(ctx(), owner, p.ID, 2, ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, _, err := e.cart.Get(ctx(), owner)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	totals, err := e.cart.RemoveItem(ctx(), owner, cart.Items[0].ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if totals.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %d items", totals.ItemCount)
	}
	if _, err := e.cart.RemoveItem(ctx(), owner, cart.Items[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestCartTotalsAcrossProducts(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()
	shirt := e.seedProduct(t, "Oxford Shirt", 100, true)
	bag := e.seedProduct(t, "Tote Bag", 250, true)

	if _, err := e.cart.AddItem(ctx(), owner, shirt.ID, 2, "M"); err != nil {
		t.Fatalf("add shirt: %v", err)
	}
	totals, err := e.cart.AddItem(ctx(), owner, bag.ID, 1, "")
	if err != nil {
		t.Fatalf("add bag: %v", err)
	}
	if totals.ItemCount != 3 {
		t.Fatalf("expected 3 items, got %d", totals.ItemCount)
	}
	if totals.TotalPrice != 450 {
		t.Fatalf("expected total 450, got %.2f", totals.TotalPrice)
	}
}

func TestCartConcurrentFirstAddCreatesOneCart(t *testing.T) {
	e := newTestEnv(t)
	owner := sessionOwner()
	p := e.seedProduct(t, "Oxford Shirt", 100, true)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.cart.AddItem(ctx(), owner, p.ID, 1, "M")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent add: %v", err)
		}
	}

	var carts int64
	if err := e.db.Model(&domain.Cart{}).Where("session_id = ?", *owner.SessionID).Count(&carts).Error; err != nil {
		t.Fatalf("count carts: %v", err)
	}
	if carts != 1 {
		t.Fatalf("expected exactly one cart row, got %d", carts)
	}
	totals, err := e.cart.Totals(ctx(), owner)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.ItemCount != callers {
		t.Fatalf("expected %d items, got %d", callers, totals.ItemCount)
	}
}

func TestCartMergeOnLogin(t *testing.T) {
	e := newTestEnv(t)
	sessionID := uuid.New()
	userID := uuid.New()
	anon := domain.SessionOwner(sessionID)
	user := domain.UserOwner(userID)
	shirt := e.seedProduct(t, "Oxford Shirt", 100, true)
	bag := e.seedProduct(t, "Tote Bag", 250, true)

	if _, err := e.cart.AddItem(ctx(), anon, shirt.ID, 2, "M"); err != nil {
		t.Fatalf("anon add shirt: %v", err)
	}
	if _, err := e.cart.AddItem(ctx(), anon, bag.ID, 1, ""); err != nil {
		t.Fatalf("anon add bag: %v", err)
	}
	if _, err := e.cart.AddItem(ctx(), user, shirt.ID, 1, "M"); err != nil {
		t.Fatalf("user add shirt: %v", err)
	}

	if err := e.cart.MergeOnLogin(ctx(), userID, sessionID); err != nil {
		t.Fatalf("merge: %v", err)
	}

	totals, err := e.cart.Totals(ctx(), user)
	if err != nil {
		t.Fatalf("user totals: %v", err)
	}
	if totals.ItemCount != 4 {
		t.Fatalf("expected 4 items after merge, got %d", totals.ItemCount)
	}
	if totals.TotalPrice != 550 {
		t.Fatalf("expected total 550 after merge, got %.2f", totals.TotalPrice)
	}

	var sessionCarts int64
	if err := e.db.Model(&domain.Cart{}).Where("session_id = ?", sessionID).Count(&sessionCarts).Error; err != nil {
		t.Fatalf("count session carts: %v", err)
	}
	if sessionCarts != 0 {
		t.Fatalf("expected session cart removed after merge, got %d", sessionCarts)
	}
}
