package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// sellerRepository — in-memory реализация SellerRepository.
type sellerRepository struct {
	store *Store
	st    *state
}

func (r *sellerRepository) acquire() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.store.mu.Lock()
	return r.store.st, r.store.mu.Unlock
}

// Create сохраняет нового продавца, если ID и email ещё не заняты.
func (r *sellerRepository) Create(seller domain.Seller) (domain.Seller, error) {
	st, release := r.acquire()
	defer release()

	if _, exists := st.sellers[seller.ID]; exists {
		return domain.Seller{}, domain.ErrDuplicateEntry
	}
	for _, existing := range st.sellers {
		if existing.Email == seller.Email {
			return domain.Seller{}, domain.ErrDuplicateEntry
		}
	}
	st.sellers[seller.ID] = seller
	return seller, nil
}

// Get возвращает продавца или ErrSellerNotFound, если его нет.
func (r *sellerRepository) Get(id string) (domain.Seller, error) {
	st, release := r.acquire()
	defer release()

	seller, ok := st.sellers[id]
	if !ok {
		return domain.Seller{}, domain.ErrSellerNotFound
	}
	return seller, nil
}

// GetByEmail возвращает продавца по email или ErrSellerNotFound.
func (r *sellerRepository) GetByEmail(email string) (domain.Seller, error) {
	st, release := r.acquire()
	defer release()

	for _, seller := range st.sellers {
		if seller.Email == email {
			return seller, nil
		}
	}
	return domain.Seller{}, domain.ErrSellerNotFound
}

// Save перезаписывает продавца, проверяя версию и уникальность email внутри вида.
func (r *sellerRepository) Save(seller domain.Seller) error {
	st, release := r.acquire()
	defer release()

	current, ok := st.sellers[seller.ID]
	if !ok {
		return domain.ErrSellerNotFound
	}
	if current.Version != seller.Version {
		return domain.ErrVersionConflict
	}
	for id, existing := range st.sellers {
		if id != seller.ID && existing.Email == seller.Email {
			return domain.ErrDuplicateEntry
		}
	}
	seller.Version++
	st.sellers[seller.ID] = seller
	return nil
}

// Delete удаляет продавца вместе с его каталогом и членствами wishlist
// на эти товары, как это делают каскадные FK в PostgreSQL.
func (r *sellerRepository) Delete(id string) error {
	st, release := r.acquire()
	defer release()

	if _, ok := st.sellers[id]; !ok {
		return domain.ErrSellerNotFound
	}
	delete(st.sellers, id)

	for productID, product := range st.products {
		if product.OwnerID != id {
			continue
		}
		delete(st.products, productID)
		for key := range st.wishes {
			if key.ProductID == productID {
				delete(st.wishes, key)
			}
		}
	}
	return nil
}

// Ranking возвращает статистику продавцов по убыванию вырученной суммы.
func (r *sellerRepository) Ranking() ([]domain.RankingEntry, error) {
	st, release := r.acquire()
	defer release()

	entries := make([]domain.RankingEntry, 0, len(st.sellers))
	for _, seller := range st.sellers {
		entries = append(entries, domain.RankingEntry{
			ID:         seller.ID,
			Name:       seller.Name,
			Count:      seller.SellsCount,
			TotalMinor: seller.SoldMinor,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalMinor != entries[j].TotalMinor {
			return entries[i].TotalMinor > entries[j].TotalMinor
		}
		return entries[i].ID < entries[j].ID
	})

	return entries, nil
}

var _ domain.SellerRepository = (*sellerRepository)(nil)
