package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// productRepository — in-memory реализация ProductRepository.
type productRepository struct {
	store *Store
	st    *state
}

func (r *productRepository) acquire() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.store.mu.Lock()
	return r.store.st, r.store.mu.Unlock
}

// Create сохраняет новый товар, если ID ещё не занят.
func (r *productRepository) Create(product domain.Product) (domain.Product, error) {
	st, release := r.acquire()
	defer release()

	if _, exists := st.products[product.ID]; exists {
		return domain.Product{}, domain.ErrDuplicateEntry
	}
	st.products[product.ID] = product
	return product, nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepository) Get(id string) (domain.Product, error) {
	st, release := r.acquire()
	defer release()

	product, ok := st.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// ListBySaleState возвращает товары в заданном состоянии, новые первыми.
func (r *productRepository) ListBySaleState(state domain.SaleState) ([]domain.Product, error) {
	st, release := r.acquire()
	defer release()

	result := make([]domain.Product, 0, len(st.products))
	for _, product := range st.products {
		if product.SaleState != state {
			continue
		}
		result = append(result, product)
	}
	sortProducts(result)
	return result, nil
}

// ListByOwner возвращает все товары продавца независимо от состояния.
func (r *productRepository) ListByOwner(sellerID string) ([]domain.Product, error) {
	st, release := r.acquire()
	defer release()

	result := make([]domain.Product, 0)
	for _, product := range st.products {
		if product.OwnerID != sellerID {
			continue
		}
		result = append(result, product)
	}
	sortProducts(result)
	return result, nil
}

// Save перезаписывает товар, проверяя версию (optimistic locking).
// Конкурирующие покупки одного товара разрешаются именно здесь:
// вторая транзакция получает ErrVersionConflict.
func (r *productRepository) Save(product domain.Product) error {
	st, release := r.acquire()
	defer release()

	current, ok := st.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if current.Version != product.Version {
		return domain.ErrVersionConflict
	}
	product.Version++
	st.products[product.ID] = product
	return nil
}

// Delete удаляет товар вместе со связанными строками списков желаний,
// повторяя каскад внешнего ключа в PostgreSQL-схеме.
func (r *productRepository) Delete(id string) error {
	st, release := r.acquire()
	defer release()

	if _, ok := st.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(st.products, id)
	for key := range st.wishes {
		if key.ProductID == id {
			delete(st.wishes, key)
		}
	}
	return nil
}

func sortProducts(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID > products[j].ID
	})
}

var _ domain.ProductRepository = (*productRepository)(nil)
