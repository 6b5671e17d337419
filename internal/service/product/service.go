package product

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/auth"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
)

// Draft — данные нового товара. Владелец и состояние продажи в draft
// игнорируются: владелец всегда вызывающий продавец, состояние всегда Unsold.
type Draft struct {
	Name        string
	Description string
	PriceMinor  int64
}

// Patch — частичное обновление товара; пустое поле не меняется.
type Patch struct {
	Name        string
	Description string
	// PriceMinor применяется, если HasPrice == true (нулевая цена допустима).
	PriceMinor int64
	HasPrice   bool
}

// Service реализует движок жизненного цикла товара: владение, переход
// Unsold → Sold и расчёт покупки в одной транзакционной границе.
type Service struct {
	repos    domain.Repositories
	uow      domain.UnitOfWork
	notifier domain.Notifier
	metrics  *metrics.MarketplaceMetrics
	logger   *log.Entry

	dispatchMu     sync.Mutex
	dispatchClosed bool
	dispatchWG     sync.WaitGroup
}

// NewService конструирует движок с зависимостями. metrics и notifier опциональны.
func NewService(
	repos domain.Repositories,
	uow domain.UnitOfWork,
	notifier domain.Notifier,
	m *metrics.MarketplaceMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "product-service")
	}
	return &Service{
		repos:    repos,
		uow:      uow,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Insert создаёт товар от имени аутентифицированного продавца.
func (s *Service) Insert(ctx context.Context, draft Draft) (domain.Product, error) {
	sellerID, ok := auth.CurrentSeller(ctx)
	if !ok {
		return domain.Product{}, domain.ErrUnauthorized
	}
	if _, err := s.repos.Sellers().Get(sellerID); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Description: draft.Description,
		PriceMinor:  draft.PriceMinor,
		OwnerID:     sellerID,
		SaleState:   domain.SaleStateUnsold,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	created, err := s.repos.Products().Create(product)
	if err != nil {
		s.logger.WithError(err).WithField("seller_id", sellerID).Error("failed to insert product")
		return domain.Product{}, err
	}
	return created, nil
}

// Update применяет patch к товару. Порядок проверок фиксирован:
// существование → владение → состояние.
func (s *Service) Update(ctx context.Context, productID string, patch Patch) (domain.Product, error) {
	product, err := s.repos.Products().Get(productID)
	if err != nil {
		return domain.Product{}, err
	}

	sellerID, ok := auth.CurrentSeller(ctx)
	if !ok || sellerID != product.OwnerID {
		return domain.Product{}, domain.ErrUnauthorized
	}
	if product.IsSold() {
		return domain.Product{}, domain.ErrProductAlreadySold
	}

	if patch.Name != "" {
		product.Name = patch.Name
	}
	if patch.Description != "" {
		product.Description = patch.Description
	}
	if patch.HasPrice {
		product.PriceMinor = patch.PriceMinor
	}
	product.UpdatedAt = time.Now().UTC()

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	if err := s.repos.Products().Save(product); err != nil {
		s.logger.WithError(err).WithField("product_id", productID).Warn("failed to update product")
		return domain.Product{}, err
	}
	return s.repos.Products().Get(productID)
}

// Delete удаляет товар. Порядок проверок: существование → владение → состояние;
// проданный товар неизменяем и не удаляется.
func (s *Service) Delete(ctx context.Context, productID string) error {
	product, err := s.repos.Products().Get(productID)
	if err != nil {
		return err
	}

	sellerID, ok := auth.CurrentSeller(ctx)
	if !ok || sellerID != product.OwnerID {
		return domain.ErrUnauthorized
	}
	if product.IsSold() {
		return domain.ErrProductAlreadySold
	}

	return s.repos.Products().Delete(productID)
}

// FindByID возвращает товар по идентификатору.
func (s *Service) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	return s.repos.Products().Get(productID)
}

// FindAll возвращает публичный каталог: только непроданные товары.
func (s *Service) FindAll(ctx context.Context) ([]domain.Product, error) {
	return s.repos.Products().ListBySaleState(domain.SaleStateUnsold)
}

// FindOwnProducts возвращает все товары аутентифицированного продавца
// независимо от состояния продажи.
func (s *Service) FindOwnProducts(ctx context.Context) ([]domain.Product, error) {
	sellerID, ok := auth.CurrentSeller(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.repos.Products().ListByOwner(sellerID)
}

// Buy выполняет переход Unsold → Sold и расчёт покупки одной транзакцией:
// товар, счётчики покупателя и продавца, запись о покупке и каскад списков
// желаний фиксируются атомарно. Уведомление уходит после коммита и не влияет
// на исход покупки.
func (s *Service) Buy(ctx context.Context, productID string) (domain.Order, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordPurchaseDuration(time.Since(start))
		}
	}()

	var (
		created domain.Order
		bought  domain.Product
	)

	err := s.uow.Do(ctx, func(tx domain.Repositories) error {
		product, err := tx.Products().Get(productID)
		if err != nil {
			return err
		}
		if product.IsSold() {
			return domain.ErrProductAlreadySold
		}

		clientID, ok := auth.CurrentClient(ctx)
		if !ok {
			return domain.ErrUnauthorized
		}

		buyer, err := tx.Clients().Get(clientID)
		if err != nil {
			return err
		}
		owner, err := tx.Sellers().Get(product.OwnerID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := product.MarkSold(clientID, now); err != nil {
			return err
		}
		if err := tx.Products().Save(product); err != nil {
			return err
		}

		buyer.ApplyPurchase(product.PriceMinor, now)
		if err := tx.Clients().Save(buyer); err != nil {
			return err
		}

		owner.ApplySale(product.PriceMinor, now)
		if err := tx.Sellers().Save(owner); err != nil {
			return err
		}

		order := domain.Order{
			ID:         uuid.NewString(),
			ProductID:  product.ID,
			BuyerID:    buyer.ID,
			SellerID:   owner.ID,
			PriceMinor: product.PriceMinor,
			CreatedAt:  now,
		}
		created, err = tx.Orders().Create(order)
		if err != nil {
			return err
		}

		// Продажа снимает товар со всех списков желаний, не только у покупателя.
		if err := tx.Wishlists().RemoveAllForProduct(product.ID); err != nil {
			return err
		}

		bought = product
		return nil
	})
	if err != nil {
		mapped := s.mapBuyError(productID, err)
		if s.metrics != nil {
			s.metrics.RecordPurchaseRejected(rejectReason(mapped))
		}
		return domain.Order{}, mapped
	}

	if s.metrics != nil {
		s.metrics.RecordPurchase(created.PriceMinor)
	}
	s.dispatchPurchaseNotification(created, bought)

	return created, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrProductAlreadySold):
		return "already_sold"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

// mapBuyError переводит конфликт версий в ErrProductAlreadySold, когда
// конкурирующая транзакция успела продать товар первой.
func (s *Service) mapBuyError(productID string, err error) error {
	if !domain.IsVersionConflict(err) {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordPurchaseConflict()
	}

	current, loadErr := s.repos.Products().Get(productID)
	if loadErr == nil && current.IsSold() {
		return domain.ErrProductAlreadySold
	}

	s.logger.WithError(err).WithField("product_id", productID).Warn("purchase lost version race without sale")
	return err
}

// dispatchPurchaseNotification отправляет уведомление о покупке асинхронно.
// Сбой доставки логируется и отбрасывается.
func (s *Service) dispatchPurchaseNotification(order domain.Order, product domain.Product) {
	if s.notifier == nil {
		return
	}

	s.dispatchMu.Lock()
	if s.dispatchClosed {
		s.dispatchMu.Unlock()
		s.logger.WithField("order_id", order.ID).Warn("notification dispatch skipped during shutdown")
		return
	}
	s.dispatchWG.Add(1)
	s.dispatchMu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordNotificationStarted()
	}

	go func() {
		defer s.dispatchWG.Done()
		defer func() {
			if s.metrics != nil {
				s.metrics.RecordNotificationFinished()
			}
		}()

		if err := s.notifier.NotifyPurchase(context.Background(), order, product); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to deliver purchase notification")
			if s.metrics != nil {
				s.metrics.RecordNotificationFailed()
			}
			return
		}
		if s.metrics != nil {
			s.metrics.RecordNotificationSent()
		}
	}()
}

// Shutdown ожидает завершения фоновых отправок уведомлений.
func (s *Service) Shutdown(ctx context.Context) error {
	s.dispatchMu.Lock()
	s.dispatchClosed = true
	s.dispatchMu.Unlock()

	waitDone := make(chan struct{})
	go func() {
		s.dispatchWG.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
