package ranking

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// Service — чистая read-only проекция торговой статистики участников.
// Порядок строк определяется хранилищем и здесь не пересчитывается.
type Service struct {
	repos  domain.Repositories
	logger *log.Entry
}

// NewService конструирует проекцию с зависимостями.
func NewService(repos domain.Repositories, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "ranking-service")
	}
	return &Service{repos: repos, logger: logger}
}

// Clients возвращает рейтинг покупателей по потраченной сумме.
func (s *Service) Clients(ctx context.Context) ([]domain.RankingEntry, error) {
	return s.repos.Clients().Ranking()
}

// Sellers возвращает рейтинг продавцов по вырученной сумме.
func (s *Service) Sellers(ctx context.Context) ([]domain.RankingEntry, error) {
	return s.repos.Sellers().Ranking()
}
