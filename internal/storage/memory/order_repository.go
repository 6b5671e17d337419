package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// orderRepository — in-memory реализация OrderRepository.
type orderRepository struct {
	store *Store
	st    *state
}

func (r *orderRepository) acquire() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.store.mu.Lock()
	return r.store.st, r.store.mu.Unlock
}

// Create сохраняет новую запись о покупке, если ID ещё не занят.
func (r *orderRepository) Create(order domain.Order) (domain.Order, error) {
	st, release := r.acquire()
	defer release()

	if _, exists := st.orders[order.ID]; exists {
		return domain.Order{}, domain.ErrDuplicateEntry
	}
	st.orders[order.ID] = order
	return order, nil
}

// Get возвращает запись или ErrOrderNotFound, если её нет.
func (r *orderRepository) Get(id string) (domain.Order, error) {
	st, release := r.acquire()
	defer release()

	order, ok := st.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListByBuyer возвращает историю покупок клиента, новые первыми.
func (r *orderRepository) ListByBuyer(clientID string) ([]domain.Order, error) {
	st, release := r.acquire()
	defer release()

	result := make([]domain.Order, 0)
	for _, order := range st.orders {
		if order.BuyerID != clientID {
			continue
		}
		result = append(result, order)
	}
	sortOrders(result)
	return result, nil
}

// ListBySeller возвращает историю продаж продавца, новые первыми.
func (r *orderRepository) ListBySeller(sellerID string) ([]domain.Order, error) {
	st, release := r.acquire()
	defer release()

	result := make([]domain.Order, 0)
	for _, order := range st.orders {
		if order.SellerID != sellerID {
			continue
		}
		result = append(result, order)
	}
	sortOrders(result)
	return result, nil
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

var _ domain.OrderRepository = (*orderRepository)(nil)
