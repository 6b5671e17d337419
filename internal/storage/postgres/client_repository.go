package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type clientRepository struct {
	q querier
}

// NewClientRepository создаёт PostgreSQL-реализацию ClientRepository.
func NewClientRepository(store *Store) domain.ClientRepository {
	return &clientRepository{q: store.DB()}
}

func (r *clientRepository) Create(client domain.Client) (domain.Client, error) {
	ctx, cancel := opContext()
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO clients (
			id, email, password_hash, name, buys_count, spent_minor, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		client.ID, client.Email, client.PasswordHash, client.Name,
		client.BuysCount, client.SpentMinor, client.Version, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Client{}, domain.ErrDuplicateEntry
		}
		return domain.Client{}, fmt.Errorf("insert client: %w", err)
	}

	return client, nil
}

func (r *clientRepository) Get(id string) (domain.Client, error) {
	ctx, cancel := opContext()
	defer cancel()

	return r.scanOne(r.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, buys_count, spent_minor, version, created_at, updated_at
		FROM clients
		WHERE id = $1
	`, id))
}

func (r *clientRepository) GetByEmail(email string) (domain.Client, error) {
	ctx, cancel := opContext()
	defer cancel()

	return r.scanOne(r.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, buys_count, spent_minor, version, created_at, updated_at
		FROM clients
		WHERE email = $1
	`, email))
}

func (r *clientRepository) Save(client domain.Client) error {
	ctx, cancel := opContext()
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE clients
		SET email = $1,
		    password_hash = $2,
		    name = $3,
		    buys_count = $4,
		    spent_minor = $5,
		    version = version + 1,
		    updated_at = $6
		WHERE id = $7
		  AND version = $8
	`,
		client.Email, client.PasswordHash, client.Name,
		client.BuysCount, client.SpentMinor, client.UpdatedAt,
		client.ID, client.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("update client: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.exists(client.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrClientNotFound
		}
		return domain.ErrVersionConflict
	}

	return nil
}

func (r *clientRepository) Delete(id string) error {
	ctx, cancel := opContext()
	defer cancel()

	// Записи wishlist_items уходят по FK ON DELETE CASCADE.
	res, err := r.q.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepository) Ranking() ([]domain.RankingEntry, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, buys_count, spent_minor
		FROM clients
		ORDER BY spent_minor DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query client ranking: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.RankingEntry, 0)
	for rows.Next() {
		var entry domain.RankingEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Count, &entry.TotalMinor); err != nil {
			return nil, fmt.Errorf("scan client ranking row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client ranking rows: %w", err)
	}

	return entries, nil
}

func (r *clientRepository) scanOne(row *sql.Row) (domain.Client, error) {
	var client domain.Client
	err := row.Scan(
		&client.ID, &client.Email, &client.PasswordHash, &client.Name,
		&client.BuysCount, &client.SpentMinor, &client.Version, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Client{}, domain.ErrClientNotFound
		}
		return domain.Client{}, fmt.Errorf("select client: %w", err)
	}
	return client, nil
}

func (r *clientRepository) exists(id string) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	var found string
	err := r.q.QueryRowContext(ctx, `SELECT id FROM clients WHERE id = $1`, id).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check client exists: %w", err)
}

var _ domain.ClientRepository = (*clientRepository)(nil)
