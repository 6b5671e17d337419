package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

func TestPrincipalKind(t *testing.T) {
	client := domain.Principal{ID: "c-1", Kind: domain.PrincipalKindClient}
	if !client.IsClient() || client.IsSeller() {
		t.Fatalf("expected client principal, got %+v", client)
	}

	seller := domain.Principal{ID: "s-1", Kind: domain.PrincipalKindSeller}
	if !seller.IsSeller() || seller.IsClient() {
		t.Fatalf("expected seller principal, got %+v", seller)
	}
}

func TestClientApplyPurchase(t *testing.T) {
	client := domain.Client{ID: "c-1", Email: "c@mail.com", Name: "Rene", BuysCount: 1, SpentMinor: 500}
	now := client.UpdatedAt

	client.ApplyPurchase(10000, now)

	if client.BuysCount != 2 {
		t.Fatalf("expected buys count 2, got %d", client.BuysCount)
	}
	if client.SpentMinor != 10500 {
		t.Fatalf("expected spent 10500, got %d", client.SpentMinor)
	}
}

func TestSellerApplySale(t *testing.T) {
	seller := domain.Seller{ID: "s-1", Email: "s@mail.com", Name: "Vlad"}
	now := seller.UpdatedAt

	seller.ApplySale(10000, now)

	if seller.SellsCount != 1 {
		t.Fatalf("expected sells count 1, got %d", seller.SellsCount)
	}
	if seller.SoldMinor != 10000 {
		t.Fatalf("expected sold 10000, got %d", seller.SoldMinor)
	}
}

func TestOrderValidateInvariants(t *testing.T) {
	order := domain.Order{
		ID:         "order-1",
		ProductID:  "product-1",
		BuyerID:    "client-1",
		SellerID:   "seller-1",
		PriceMinor: 10000,
	}
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	order.BuyerID = ""
	order.PriceMinor = -1
	errs := order.ValidateInvariants()
	if len(errs) != 2 {
		t.Fatalf("expected 2 validation errors, got %v", errs)
	}
}
