package wishlist

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/auth"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
)

// Service поддерживает отношение «клиент желает товар» согласованным
// с жизненным циклом товара: желать можно только непроданное.
type Service struct {
	repos   domain.Repositories
	metrics *metrics.MarketplaceMetrics
	logger  *log.Entry
}

// NewService конструирует сервис с зависимостями. metrics опциональны.
func NewService(repos domain.Repositories, m *metrics.MarketplaceMetrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "wishlist-service")
	}
	return &Service{repos: repos, metrics: m, logger: logger}
}

// FindAll возвращает список желаний аутентифицированного клиента.
func (s *Service) FindAll(ctx context.Context) ([]domain.Product, error) {
	clientID, ok := auth.CurrentClient(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.repos.Wishlists().ListByClient(clientID)
}

// MarkProductAsWished добавляет товар в список желаний вызывающего клиента.
// Повторное добавление не идемпотентно: возвращает ErrProductAlreadyWished.
func (s *Service) MarkProductAsWished(ctx context.Context, productID string) error {
	clientID, ok := auth.CurrentClient(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if _, err := s.repos.Clients().Get(clientID); err != nil {
		return err
	}

	product, err := s.repos.Products().Get(productID)
	if err != nil {
		return err
	}
	if product.IsSold() {
		return domain.ErrProductAlreadySold
	}

	if err := s.repos.Wishlists().Add(clientID, productID); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordWishlistAdded()
	}
	return nil
}

// Delete убирает товар из списка желаний вызывающего. Идемпотентно:
// удаление отсутствующего членства не является ошибкой.
func (s *Service) Delete(ctx context.Context, productID string) error {
	clientID, ok := auth.CurrentClient(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.repos.Wishlists().Remove(clientID, productID); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordWishlistRemoved()
	}
	return nil
}

// RemoveProductFromWishlistWhenIsSold — системный каскад продажи: снимает
// товар со всех списков желаний независимо от вызывающего. Движок покупки
// выполняет тот же каскад внутри своей транзакции.
func (s *Service) RemoveProductFromWishlistWhenIsSold(ctx context.Context, productID string) error {
	if err := s.repos.Wishlists().RemoveAllForProduct(productID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordWishlistRemoved()
	}
	return nil
}
