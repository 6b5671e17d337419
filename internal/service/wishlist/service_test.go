package wishlist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/auth"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/service/wishlist"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/memory"
)

func seed(t *testing.T) (*memory.Store, *wishlist.Service) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now().UTC()

	if _, err := store.Clients().Create(domain.Client{
		ID: "client-1", Email: "rene@mail.com", Name: "Rene", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	if _, err := store.Products().Create(domain.Product{
		ID: "p-1", Name: "PS5", PriceMinor: 10000, OwnerID: "seller-1",
		SaleState: domain.SaleStateUnsold, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	return store, wishlist.NewService(store, nil, nil)
}

func clientCtx() context.Context { return auth.WithClient(context.Background(), "client-1") }

func TestMarkProductAsWished(t *testing.T) {
	_, svc := seed(t)

	if err := svc.MarkProductAsWished(clientCtx(), "p-1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	wishes, err := svc.FindAll(clientCtx())
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	if len(wishes) != 1 || wishes[0].ID != "p-1" {
		t.Fatalf("expected p-1 in wishlist, got %+v", wishes)
	}
}

// Повторное добавление не идемпотентно.
func TestMarkProductAsWished_Twice(t *testing.T) {
	_, svc := seed(t)

	if err := svc.MarkProductAsWished(clientCtx(), "p-1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := svc.MarkProductAsWished(clientCtx(), "p-1"); !errors.Is(err, domain.ErrProductAlreadyWished) {
		t.Fatalf("expected ErrProductAlreadyWished, got %v", err)
	}
}

func TestMarkProductAsWished_Guards(t *testing.T) {
	store, svc := seed(t)

	if err := svc.MarkProductAsWished(context.Background(), "p-1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.MarkProductAsWished(clientCtx(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	// Проданный товар желать нельзя.
	product, err := store.Products().Get("p-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if err := product.MarkSold("client-9", time.Now().UTC()); err != nil {
		t.Fatalf("mark sold failed: %v", err)
	}
	if err := store.Products().Save(product); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := svc.MarkProductAsWished(clientCtx(), "p-1"); !errors.Is(err, domain.ErrProductAlreadySold) {
		t.Fatalf("expected ErrProductAlreadySold, got %v", err)
	}
}

// Удаление из списка идемпотентно, в отличие от добавления.
func TestDelete_Idempotent(t *testing.T) {
	_, svc := seed(t)

	if err := svc.MarkProductAsWished(clientCtx(), "p-1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := svc.Delete(clientCtx(), "p-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(clientCtx(), "p-1"); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if err := svc.Delete(clientCtx(), "never-wished"); err != nil {
		t.Fatalf("deleting absent membership must be a no-op: %v", err)
	}
}

func TestRemoveProductFromWishlistWhenIsSold(t *testing.T) {
	store, svc := seed(t)

	// Товар в списках нескольких клиентов.
	if err := store.Wishlists().Add("client-1", "p-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Wishlists().Add("client-2", "p-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svc.RemoveProductFromWishlistWhenIsSold(context.Background(), "p-1"); err != nil {
		t.Fatalf("cascade failed: %v", err)
	}

	wishes, err := svc.FindAll(clientCtx())
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	if len(wishes) != 0 {
		t.Fatalf("expected empty wishlist, got %+v", wishes)
	}
}
