package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// UnitOfWork выполняет многосущностные изменения в одной SQL-транзакции.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork создаёт UnitOfWork поверх подключения хранилища.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{db: store.DB()}
}

// Do открывает транзакцию, выполняет fn над транзакционным набором
// репозиториев и коммитит. Любая ошибка fn откатывает всё.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx domain.Repositories) error) error {
	sqlTx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&txRepositories{q: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// txRepositories связывает репозитории с открытой транзакцией.
type txRepositories struct {
	q *sql.Tx
}

func (t *txRepositories) Clients() domain.ClientRepository     { return &clientRepository{q: t.q} }
func (t *txRepositories) Sellers() domain.SellerRepository     { return &sellerRepository{q: t.q} }
func (t *txRepositories) Products() domain.ProductRepository   { return &productRepository{q: t.q} }
func (t *txRepositories) Orders() domain.OrderRepository       { return &orderRepository{q: t.q} }
func (t *txRepositories) Wishlists() domain.WishlistRepository { return &wishlistRepository{q: t.q} }

var (
	_ domain.UnitOfWork   = (*UnitOfWork)(nil)
	_ domain.Repositories = (*txRepositories)(nil)
)
