package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/memory"
)

func newClient(id, email string) domain.Client {
	now := time.Now().UTC()
	return domain.Client{
		ID:        id,
		Email:     email,
		Name:      "client " + id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newSeller(id, email string) domain.Seller {
	now := time.Now().UTC()
	return domain.Seller{
		ID:        id,
		Email:     email,
		Name:      "seller " + id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newProduct(id, ownerID string, createdAt time.Time) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       "product " + id,
		PriceMinor: 10000,
		OwnerID:    ownerID,
		SaleState:  domain.SaleStateUnsold,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestUnitOfWork_CommitSwapsSnapshot(t *testing.T) {
	store := memory.NewStore()

	err := store.Do(context.Background(), func(tx domain.Repositories) error {
		if _, err := tx.Clients().Create(newClient("c-1", "c1@mail.com")); err != nil {
			return err
		}
		_, err := tx.Sellers().Create(newSeller("s-1", "s1@mail.com"))
		return err
	})
	if err != nil {
		t.Fatalf("uow failed: %v", err)
	}

	if _, err := store.Clients().Get("c-1"); err != nil {
		t.Fatalf("committed client missing: %v", err)
	}
	if _, err := store.Sellers().Get("s-1"); err != nil {
		t.Fatalf("committed seller missing: %v", err)
	}
}

func TestUnitOfWork_ErrorRollsBackEverything(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.Do(context.Background(), func(tx domain.Repositories) error {
		if _, err := tx.Clients().Create(newClient("c-1", "c1@mail.com")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := store.Clients().Get("c-1"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("rolled back client must not exist, got %v", err)
	}
}

func TestUnitOfWork_CancelledContext(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Do(ctx, func(tx domain.Repositories) error {
		t.Fatal("fn must not run with cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClientRepository_DuplicateEmail(t *testing.T) {
	store := memory.NewStore()

	if _, err := store.Clients().Create(newClient("c-1", "same@mail.com")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err := store.Clients().Create(newClient("c-2", "same@mail.com"))
	if !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestClientRepository_SaveVersionConflict(t *testing.T) {
	store := memory.NewStore()

	created, err := store.Clients().Create(newClient("c-1", "c1@mail.com"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first := created
	first.Name = "first writer"
	if err := store.Clients().Save(first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	stale := created
	stale.Name = "stale writer"
	if err := store.Clients().Save(stale); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	stored, err := store.Clients().Get("c-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Name != "first writer" {
		t.Fatalf("stale write must not win, got %q", stored.Name)
	}
	if stored.Version != created.Version+1 {
		t.Fatalf("expected version bump to %d, got %d", created.Version+1, stored.Version)
	}
}

func TestClientRepository_Ranking(t *testing.T) {
	store := memory.NewStore()

	rich := newClient("c-rich", "rich@mail.com")
	rich.SpentMinor = 50000
	rich.BuysCount = 3
	poor := newClient("c-poor", "poor@mail.com")
	poor.SpentMinor = 100
	poor.BuysCount = 1

	if _, err := store.Clients().Create(poor); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := store.Clients().Create(rich); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	entries, err := store.Clients().Ranking()
	if err != nil {
		t.Fatalf("ranking failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "c-rich" || entries[0].TotalMinor != 50000 || entries[0].Count != 3 {
		t.Fatalf("expected rich client first, got %+v", entries[0])
	}
}

func TestProductRepository_ListOrder(t *testing.T) {
	store := memory.NewStore()
	base := time.Now().UTC()

	old := newProduct("p-old", "s-1", base.Add(-time.Hour))
	fresh := newProduct("p-fresh", "s-1", base)

	if _, err := store.Products().Create(old); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := store.Products().Create(fresh); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	unsold, err := store.Products().ListBySaleState(domain.SaleStateUnsold)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(unsold) != 2 || unsold[0].ID != "p-fresh" || unsold[1].ID != "p-old" {
		t.Fatalf("expected fresh product first, got %+v", unsold)
	}

	owned, err := store.Products().ListByOwner("s-1")
	if err != nil {
		t.Fatalf("list by owner failed: %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("expected 2 owned products, got %d", len(owned))
	}
}

func TestProductRepository_DeleteCascadesWishes(t *testing.T) {
	store := memory.NewStore()

	if _, err := store.Products().Create(newProduct("p-1", "s-1", time.Now().UTC())); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.Wishlists().Add("c-1", "p-1"); err != nil {
		t.Fatalf("wish failed: %v", err)
	}

	if err := store.Products().Delete("p-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if err := store.Wishlists().Add("c-1", "p-1"); err != nil {
		t.Fatalf("wish after delete must not collide with stale membership: %v", err)
	}
}

func TestWishlistRepository_AddRemove(t *testing.T) {
	store := memory.NewStore()

	if _, err := store.Products().Create(newProduct("p-1", "s-1", time.Now().UTC())); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := store.Wishlists().Add("c-1", "p-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Wishlists().Add("c-1", "p-1"); !errors.Is(err, domain.ErrProductAlreadyWished) {
		t.Fatalf("expected ErrProductAlreadyWished, got %v", err)
	}

	// Remove идемпотентен.
	if err := store.Wishlists().Remove("c-1", "p-1"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := store.Wishlists().Remove("c-1", "p-1"); err != nil {
		t.Fatalf("second remove must be a no-op: %v", err)
	}
}

func TestWishlistRepository_RemoveAllForProduct(t *testing.T) {
	store := memory.NewStore()

	if _, err := store.Products().Create(newProduct("p-1", "s-1", time.Now().UTC())); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for _, clientID := range []string{"c-1", "c-2", "c-3"} {
		if err := store.Wishlists().Add(clientID, "p-1"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	if err := store.Wishlists().RemoveAllForProduct("p-1"); err != nil {
		t.Fatalf("remove all failed: %v", err)
	}

	for _, clientID := range []string{"c-1", "c-2", "c-3"} {
		wishes, err := store.Wishlists().ListByClient(clientID)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(wishes) != 0 {
			t.Fatalf("expected empty wishlist for %s, got %d items", clientID, len(wishes))
		}
	}
}

func TestSellerRepository_DeleteCascadesCatalog(t *testing.T) {
	store := memory.NewStore()

	if _, err := store.Sellers().Create(newSeller("s-1", "s1@mail.com")); err != nil {
		t.Fatalf("create seller failed: %v", err)
	}
	if _, err := store.Products().Create(newProduct("p-1", "s-1", time.Now().UTC())); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := store.Wishlists().Add("c-1", "p-1"); err != nil {
		t.Fatalf("wish failed: %v", err)
	}

	if err := store.Sellers().Delete("s-1"); err != nil {
		t.Fatalf("delete seller failed: %v", err)
	}

	if _, err := store.Products().Get("p-1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("catalog must be removed with the seller, got %v", err)
	}
	wishes, err := store.Wishlists().ListByClient("c-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(wishes) != 0 {
		t.Fatalf("wishlist rows must follow the cascade, got %d", len(wishes))
	}
}

func TestOrderRepository_ListByBuyerAndSeller(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()

	orders := []domain.Order{
		{ID: "o-1", ProductID: "p-1", BuyerID: "c-1", SellerID: "s-1", PriceMinor: 100, CreatedAt: now.Add(-time.Minute)},
		{ID: "o-2", ProductID: "p-2", BuyerID: "c-1", SellerID: "s-2", PriceMinor: 200, CreatedAt: now},
		{ID: "o-3", ProductID: "p-3", BuyerID: "c-2", SellerID: "s-1", PriceMinor: 300, CreatedAt: now},
	}
	for _, order := range orders {
		if _, err := store.Orders().Create(order); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	byBuyer, err := store.Orders().ListByBuyer("c-1")
	if err != nil {
		t.Fatalf("list by buyer failed: %v", err)
	}
	if len(byBuyer) != 2 || byBuyer[0].ID != "o-2" {
		t.Fatalf("expected newest order first for buyer, got %+v", byBuyer)
	}

	bySeller, err := store.Orders().ListBySeller("s-1")
	if err != nil {
		t.Fatalf("list by seller failed: %v", err)
	}
	if len(bySeller) != 2 {
		t.Fatalf("expected 2 orders for seller, got %d", len(bySeller))
	}
}
