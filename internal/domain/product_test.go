package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// helper для создания непроданного товара.
func makeProduct() domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:          "product-1",
		Name:        "PS5",
		Description: "console",
		PriceMinor:  10000,
		OwnerID:     "seller-1",
		SaleState:   domain.SaleStateUnsold,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProductValidateInvariants_Ok(t *testing.T) {
	product := makeProduct()
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestProductValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(p *domain.Product)
		want error
	}{
		{
			name: "no name",
			mut: func(p *domain.Product) {
				p.Name = ""
			},
			want: domain.ErrNameRequired,
		},
		{
			name: "negative price",
			mut: func(p *domain.Product) {
				p.PriceMinor = -1
			},
			want: domain.ErrAmountNegative,
		},
		{
			name: "no owner",
			mut: func(p *domain.Product) {
				p.OwnerID = ""
			},
			want: domain.ErrOwnerRequired,
		},
		{
			name: "unsold with buyer",
			mut: func(p *domain.Product) {
				p.BuyerID = "client-1"
			},
			want: domain.ErrSaleStateMismatch,
		},
		{
			name: "sold without buyer",
			mut: func(p *domain.Product) {
				p.SaleState = domain.SaleStateSold
			},
			want: domain.ErrSaleStateMismatch,
		},
		{
			name: "unknown sale state",
			mut: func(p *domain.Product) {
				p.SaleState = "pending"
			},
			want: domain.ErrSaleStateInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := makeProduct()
			tc.mut(&product)

			errs := product.ValidateInvariants()
			if len(errs) == 0 {
				t.Fatalf("expected validation errors, got none")
			}
			found := false
			for _, err := range errs {
				if errors.Is(err, tc.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected error %v, got %v", tc.want, errs)
			}
		})
	}
}

func TestProductMarkSold(t *testing.T) {
	product := makeProduct()
	now := time.Now().UTC()

	if err := product.MarkSold("client-1", now); err != nil {
		t.Fatalf("mark sold failed: %v", err)
	}
	if !product.IsSold() {
		t.Fatalf("expected product to be sold")
	}
	if product.BuyerID != "client-1" {
		t.Fatalf("expected buyer client-1, got %s", product.BuyerID)
	}
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("sold product violates invariants: %v", errs)
	}
}

func TestProductMarkSold_Terminal(t *testing.T) {
	product := makeProduct()
	now := time.Now().UTC()

	if err := product.MarkSold("client-1", now); err != nil {
		t.Fatalf("mark sold failed: %v", err)
	}

	err := product.MarkSold("client-2", now)
	if !errors.Is(err, domain.ErrProductAlreadySold) {
		t.Fatalf("expected ErrProductAlreadySold, got %v", err)
	}
	if product.BuyerID != "client-1" {
		t.Fatalf("buyer must not change after terminal state, got %s", product.BuyerID)
	}
}
