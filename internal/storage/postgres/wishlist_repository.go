package postgres

import (
	"fmt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type wishlistRepository struct {
	q querier
}

// NewWishlistRepository создаёт PostgreSQL-реализацию WishlistRepository.
func NewWishlistRepository(store *Store) domain.WishlistRepository {
	return &wishlistRepository{q: store.DB()}
}

func (r *wishlistRepository) Add(clientID, productID string) error {
	ctx, cancel := opContext()
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO wishlist_items (client_id, product_id, added_at)
		VALUES ($1, $2, NOW())
	`, clientID, productID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProductAlreadyWished
		}
		return fmt.Errorf("insert wishlist item: %w", err)
	}

	return nil
}

func (r *wishlistRepository) Remove(clientID, productID string) error {
	ctx, cancel := opContext()
	defer cancel()

	// Удаление отсутствующей пары не является ошибкой.
	if _, err := r.q.ExecContext(ctx, `
		DELETE FROM wishlist_items
		WHERE client_id = $1 AND product_id = $2
	`, clientID, productID); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}

	return nil
}

func (r *wishlistRepository) RemoveAllForProduct(productID string) error {
	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.q.ExecContext(ctx, `
		DELETE FROM wishlist_items
		WHERE product_id = $1
	`, productID); err != nil {
		return fmt.Errorf("delete wishlist items for product: %w", err)
	}

	return nil
}

func (r *wishlistRepository) ListByClient(clientID string) ([]domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.price_minor, p.owner_id, p.sale_state, p.buyer_id, p.version, p.created_at, p.updated_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.client_id = $1
		ORDER BY w.added_at DESC, p.id DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist products: %w", err)
	}
	return collectProducts(rows)
}

var _ domain.WishlistRepository = (*wishlistRepository)(nil)
