package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type productRepository struct {
	q querier
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{q: store.DB()}
}

const productColumns = `id, name, description, price_minor, owner_id, sale_state, buyer_id, version, created_at, updated_at`

func (r *productRepository) Create(product domain.Product) (domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (
			id, name, description, price_minor, owner_id, sale_state, buyer_id, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		product.ID, product.Name, product.Description, product.PriceMinor,
		product.OwnerID, string(product.SaleState), nullableID(product.BuyerID),
		product.Version, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, domain.ErrDuplicateEntry
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	return scanProduct(r.q.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
}

func (r *productRepository) ListBySaleState(state domain.SaleState) ([]domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE sale_state = $1
		ORDER BY created_at DESC, id DESC
	`, string(state))
	if err != nil {
		return nil, fmt.Errorf("list products by sale state: %w", err)
	}
	return collectProducts(rows)
}

func (r *productRepository) ListByOwner(sellerID string) ([]domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list products by owner: %w", err)
	}
	return collectProducts(rows)
}

func (r *productRepository) Save(product domain.Product) error {
	ctx, cancel := opContext()
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET name = $1,
		    description = $2,
		    price_minor = $3,
		    sale_state = $4,
		    buyer_id = $5,
		    version = version + 1,
		    updated_at = $6
		WHERE id = $7
		  AND version = $8
	`,
		product.Name, product.Description, product.PriceMinor,
		string(product.SaleState), nullableID(product.BuyerID), product.UpdatedAt,
		product.ID, product.Version,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.exists(product.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrProductNotFound
		}
		return domain.ErrVersionConflict
	}

	return nil
}

func (r *productRepository) Delete(id string) error {
	ctx, cancel := opContext()
	defer cancel()

	// Членства wishlist на товар уходят по FK ON DELETE CASCADE.
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) exists(id string) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	var found string
	err := r.q.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1`, id).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check product exists: %w", err)
}

func scanProduct(row *sql.Row) (domain.Product, error) {
	var (
		product   domain.Product
		saleState string
		buyerID   sql.NullString
	)
	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.PriceMinor,
		&product.OwnerID, &saleState, &buyerID, &product.Version, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	product.SaleState = domain.SaleState(saleState)
	product.BuyerID = buyerID.String
	return product, nil
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var (
			product   domain.Product
			saleState string
			buyerID   sql.NullString
		)
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.PriceMinor,
			&product.OwnerID, &saleState, &buyerID, &product.Version, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		product.SaleState = domain.SaleState(saleState)
		product.BuyerID = buyerID.String
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// nullableID переводит пустой идентификатор в NULL для FK-колонок.
func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}

var _ domain.ProductRepository = (*productRepository)(nil)
