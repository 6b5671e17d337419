package memory

import (
	"sort"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// wishlistRepository — in-memory реализация WishlistRepository.
type wishlistRepository struct {
	store *Store
	st    *state
}

func (r *wishlistRepository) acquire() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.store.mu.Lock()
	return r.store.st, r.store.mu.Unlock
}

// Add добавляет членство «клиент желает товар» или ErrProductAlreadyWished при повторе.
func (r *wishlistRepository) Add(clientID, productID string) error {
	st, release := r.acquire()
	defer release()

	key := wishKey{ClientID: clientID, ProductID: productID}
	if _, exists := st.wishes[key]; exists {
		return domain.ErrProductAlreadyWished
	}
	st.wishes[key] = time.Now().UTC()
	return nil
}

// Remove снимает членство; отсутствие пары не является ошибкой.
func (r *wishlistRepository) Remove(clientID, productID string) error {
	st, release := r.acquire()
	defer release()

	delete(st.wishes, wishKey{ClientID: clientID, ProductID: productID})
	return nil
}

// RemoveAllForProduct снимает товар со всех списков желаний системы.
func (r *wishlistRepository) RemoveAllForProduct(productID string) error {
	st, release := r.acquire()
	defer release()

	for key := range st.wishes {
		if key.ProductID == productID {
			delete(st.wishes, key)
		}
	}
	return nil
}

// ListByClient возвращает желаемые товары клиента, свежие членства первыми.
func (r *wishlistRepository) ListByClient(clientID string) ([]domain.Product, error) {
	st, release := r.acquire()
	defer release()

	type wished struct {
		product domain.Product
		added   time.Time
	}

	items := make([]wished, 0)
	for key, added := range st.wishes {
		if key.ClientID != clientID {
			continue
		}
		product, ok := st.products[key.ProductID]
		if !ok {
			continue
		}
		items = append(items, wished{product: product, added: added})
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].added.Equal(items[j].added) {
			return items[i].added.After(items[j].added)
		}
		return items[i].product.ID > items[j].product.ID
	})

	result := make([]domain.Product, 0, len(items))
	for _, item := range items {
		result = append(result, item.product)
	}
	return result, nil
}

var _ domain.WishlistRepository = (*wishlistRepository)(nil)
