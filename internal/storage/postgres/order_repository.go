package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type orderRepository struct {
	q querier
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{q: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) (domain.Order, error) {
	ctx, cancel := opContext()
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO orders (
			id, product_id, buyer_id, seller_id, price_minor, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		order.ID, order.ProductID, order.BuyerID, order.SellerID, order.PriceMinor, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Order{}, domain.ErrDuplicateEntry
		}
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := opContext()
	defer cancel()

	var order domain.Order
	err := r.q.QueryRowContext(ctx, `
		SELECT id, product_id, buyer_id, seller_id, price_minor, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.ProductID, &order.BuyerID, &order.SellerID, &order.PriceMinor, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListByBuyer(clientID string) ([]domain.Order, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, product_id, buyer_id, seller_id, price_minor, created_at
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC, id DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list orders by buyer: %w", err)
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListBySeller(sellerID string) ([]domain.Order, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, product_id, buyer_id, seller_id, price_minor, created_at
		FROM orders
		WHERE seller_id = $1
		ORDER BY created_at DESC, id DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list orders by seller: %w", err)
	}
	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.ProductID, &order.BuyerID, &order.SellerID, &order.PriceMinor, &order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
