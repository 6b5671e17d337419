package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// wishKey идентифицирует пару «клиент — желаемый товар».
type wishKey struct {
	ClientID  string
	ProductID string
}

// state — весь снимок данных маркетплейса. Транзакции работают над клоном
// и подменяют снимок целиком при коммите.
type state struct {
	clients  map[string]domain.Client
	sellers  map[string]domain.Seller
	products map[string]domain.Product
	orders   map[string]domain.Order
	wishes   map[wishKey]time.Time
}

func newState() *state {
	return &state{
		clients:  make(map[string]domain.Client),
		sellers:  make(map[string]domain.Seller),
		products: make(map[string]domain.Product),
		orders:   make(map[string]domain.Order),
		wishes:   make(map[wishKey]time.Time),
	}
}

func (st *state) clone() *state {
	next := &state{
		clients:  make(map[string]domain.Client, len(st.clients)),
		sellers:  make(map[string]domain.Seller, len(st.sellers)),
		products: make(map[string]domain.Product, len(st.products)),
		orders:   make(map[string]domain.Order, len(st.orders)),
		wishes:   make(map[wishKey]time.Time, len(st.wishes)),
	}
	for k, v := range st.clients {
		next.clients[k] = v
	}
	for k, v := range st.sellers {
		next.sellers[k] = v
	}
	for k, v := range st.products {
		next.products[k] = v
	}
	for k, v := range st.orders {
		next.orders[k] = v
	}
	for k, v := range st.wishes {
		next.wishes[k] = v
	}
	return next
}

// Store — in-memory хранилище для локальной разработки и тестов.
// Реализует и domain.Repositories, и domain.UnitOfWork.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore возвращает пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Do выполняет fn над клоном снимка под общим мьютексом; транзакции
// сериализуются, коммит подменяет снимок атомарно, ошибка откатывает всё.
func (s *Store) Do(ctx context.Context, fn func(tx domain.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	staged := s.st.clone()
	if err := fn(&session{st: staged}); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// Clients возвращает репозиторий клиентов поверх живого снимка.
func (s *Store) Clients() domain.ClientRepository { return &clientRepository{store: s} }

// Sellers возвращает репозиторий продавцов поверх живого снимка.
func (s *Store) Sellers() domain.SellerRepository { return &sellerRepository{store: s} }

// Products возвращает репозиторий товаров поверх живого снимка.
func (s *Store) Products() domain.ProductRepository { return &productRepository{store: s} }

// Orders возвращает репозиторий покупок поверх живого снимка.
func (s *Store) Orders() domain.OrderRepository { return &orderRepository{store: s} }

// Wishlists возвращает репозиторий списков желаний поверх живого снимка.
func (s *Store) Wishlists() domain.WishlistRepository { return &wishlistRepository{store: s} }

// session связывает репозитории с транзакционным клоном снимка.
// Блокировка не нужна: Do уже держит мьютекс хранилища.
type session struct {
	st *state
}

func (t *session) Clients() domain.ClientRepository     { return &clientRepository{st: t.st} }
func (t *session) Sellers() domain.SellerRepository     { return &sellerRepository{st: t.st} }
func (t *session) Products() domain.ProductRepository   { return &productRepository{st: t.st} }
func (t *session) Orders() domain.OrderRepository       { return &orderRepository{st: t.st} }
func (t *session) Wishlists() domain.WishlistRepository { return &wishlistRepository{st: t.st} }

var (
	_ domain.Repositories = (*Store)(nil)
	_ domain.UnitOfWork   = (*Store)(nil)
	_ domain.Repositories = (*session)(nil)
)
