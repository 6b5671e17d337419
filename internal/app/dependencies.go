package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
	"github.com/vladislavdragonenkov/marketplace/internal/security"
	"github.com/vladislavdragonenkov/marketplace/internal/service/identity"
	"github.com/vladislavdragonenkov/marketplace/internal/service/notification"
	"github.com/vladislavdragonenkov/marketplace/internal/service/order"
	"github.com/vladislavdragonenkov/marketplace/internal/service/product"
	"github.com/vladislavdragonenkov/marketplace/internal/service/ranking"
	"github.com/vladislavdragonenkov/marketplace/internal/service/wishlist"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Repos    domain.Repositories
	UoW      domain.UnitOfWork
	Notifier domain.Notifier
	Hasher   domain.PasswordHasher
	Metrics  *metrics.MarketplaceMetrics

	Clients   *identity.ClientService
	Sellers   *identity.SellerService
	Passwords *identity.PasswordService
	Products  *product.Service
	Orders    *order.Service
	Wishlists *wishlist.Service
	Rankings  *ranking.Service

	Logger *log.Entry

	closers []func() error
}

// NewDependencies собирает сервисы поверх in-memory хранилища и mock
// notifier'а. Run подменяет хранилище и notifier на PostgreSQL и Kafka,
// когда они настроены.
func NewDependencies(logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	store := memory.NewStore()
	return buildDependencies(store, store, notification.NewMockNotifier(), logger)
}

func buildDependencies(repos domain.Repositories, uow domain.UnitOfWork, notifier domain.Notifier, logger *log.Entry) *Dependencies {
	m := metrics.NewMarketplaceMetrics()
	hasher := security.NewBcryptHasher()

	return &Dependencies{
		Repos:    repos,
		UoW:      uow,
		Notifier: notifier,
		Hasher:   hasher,
		Metrics:  m,

		Clients:   identity.NewClientService(repos, hasher, m, logger.WithField("component", "client-service")),
		Sellers:   identity.NewSellerService(repos, hasher, m, logger.WithField("component", "seller-service")),
		Passwords: identity.NewPasswordService(repos, hasher, notifier, logger.WithField("component", "password-service")),
		Products:  product.NewService(repos, uow, notifier, m, logger.WithField("component", "product-service")),
		Orders:    order.NewService(repos, logger.WithField("component", "order-service")),
		Wishlists: wishlist.NewService(repos, m, logger.WithField("component", "wishlist-service")),
		Rankings:  ranking.NewService(repos, logger.WithField("component", "ranking-service")),

		Logger: logger,
	}
}

// Close освобождает ресурсы хранилища и брокера в обратном порядке.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.WithError(err).Warn("failed to close dependency")
		}
	}
}

// Shutdown дожидается фоновых отправок уведомлений движка покупок.
func (d *Dependencies) Shutdown(ctx context.Context) error {
	return d.Products.Shutdown(ctx)
}
