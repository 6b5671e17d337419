package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type sellerRepository struct {
	q querier
}

// NewSellerRepository создаёт PostgreSQL-реализацию SellerRepository.
func NewSellerRepository(store *Store) domain.SellerRepository {
	return &sellerRepository{q: store.DB()}
}

func (r *sellerRepository) Create(seller domain.Seller) (domain.Seller, error) {
	ctx, cancel := opContext()
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sellers (
			id, email, password_hash, name, sells_count, sold_minor, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		seller.ID, seller.Email, seller.PasswordHash, seller.Name,
		seller.SellsCount, seller.SoldMinor, seller.Version, seller.CreatedAt, seller.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Seller{}, domain.ErrDuplicateEntry
		}
		return domain.Seller{}, fmt.Errorf("insert seller: %w", err)
	}

	return seller, nil
}

func (r *sellerRepository) Get(id string) (domain.Seller, error) {
	ctx, cancel := opContext()
	defer cancel()

	return r.scanOne(r.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, sells_count, sold_minor, version, created_at, updated_at
		FROM sellers
		WHERE id = $1
	`, id))
}

func (r *sellerRepository) GetByEmail(email string) (domain.Seller, error) {
	ctx, cancel := opContext()
	defer cancel()

	return r.scanOne(r.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, sells_count, sold_minor, version, created_at, updated_at
		FROM sellers
		WHERE email = $1
	`, email))
}

func (r *sellerRepository) Save(seller domain.Seller) error {
	ctx, cancel := opContext()
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE sellers
		SET email = $1,
		    password_hash = $2,
		    name = $3,
		    sells_count = $4,
		    sold_minor = $5,
		    version = version + 1,
		    updated_at = $6
		WHERE id = $7
		  AND version = $8
	`,
		seller.Email, seller.PasswordHash, seller.Name,
		seller.SellsCount, seller.SoldMinor, seller.UpdatedAt,
		seller.ID, seller.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("update seller: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.exists(seller.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrSellerNotFound
		}
		return domain.ErrVersionConflict
	}

	return nil
}

func (r *sellerRepository) Delete(id string) error {
	ctx, cancel := opContext()
	defer cancel()

	// Каталог продавца уходит по FK ON DELETE CASCADE, вместе с ним —
	// членства wishlist на эти товары.
	res, err := r.q.ExecContext(ctx, `DELETE FROM sellers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete seller: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrSellerNotFound
	}
	return nil
}

func (r *sellerRepository) Ranking() ([]domain.RankingEntry, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, sells_count, sold_minor
		FROM sellers
		ORDER BY sold_minor DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query seller ranking: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.RankingEntry, 0)
	for rows.Next() {
		var entry domain.RankingEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Count, &entry.TotalMinor); err != nil {
			return nil, fmt.Errorf("scan seller ranking row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seller ranking rows: %w", err)
	}

	return entries, nil
}

func (r *sellerRepository) scanOne(row *sql.Row) (domain.Seller, error) {
	var seller domain.Seller
	err := row.Scan(
		&seller.ID, &seller.Email, &seller.PasswordHash, &seller.Name,
		&seller.SellsCount, &seller.SoldMinor, &seller.Version, &seller.CreatedAt, &seller.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Seller{}, domain.ErrSellerNotFound
		}
		return domain.Seller{}, fmt.Errorf("select seller: %w", err)
	}
	return seller, nil
}

func (r *sellerRepository) exists(id string) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	var found string
	err := r.q.QueryRowContext(ctx, `SELECT id FROM sellers WHERE id = $1`, id).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check seller exists: %w", err)
}

var _ domain.SellerRepository = (*sellerRepository)(nil)
