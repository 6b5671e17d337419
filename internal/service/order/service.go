package order

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/auth"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// Service — read-only шлюз авторизации над историей покупок.
// Видимость проверяется членством в собственной истории вызывающего,
// а не сравнением внешних ключей: подбор чужого идентификатора
// возвращает тот же ErrUnauthorized.
type Service struct {
	repos  domain.Repositories
	logger *log.Entry
}

// NewService конструирует сервис с зависимостями.
func NewService(repos domain.Repositories, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{repos: repos, logger: logger}
}

// FindByID возвращает запись о покупке, если она входит в историю вызывающего.
// isClientRequest выбирает вид участника, которым должен быть аутентифицирован запрос.
func (s *Service) FindByID(ctx context.Context, orderID string, isClientRequest bool) (domain.Order, error) {
	history, err := s.ownHistory(ctx, isClientRequest)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.repos.Orders().Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	for _, own := range history {
		if own.ID == order.ID {
			return order, nil
		}
	}
	return domain.Order{}, domain.ErrUnauthorized
}

// FindAll возвращает собственную историю покупок или продаж вызывающего.
func (s *Service) FindAll(ctx context.Context, isClientRequest bool) ([]domain.Order, error) {
	return s.ownHistory(ctx, isClientRequest)
}

func (s *Service) ownHistory(ctx context.Context, isClientRequest bool) ([]domain.Order, error) {
	if isClientRequest {
		clientID, ok := auth.CurrentClient(ctx)
		if !ok {
			return nil, domain.ErrUnauthorized
		}
		return s.repos.Orders().ListByBuyer(clientID)
	}

	sellerID, ok := auth.CurrentSeller(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.repos.Orders().ListBySeller(sellerID)
}
