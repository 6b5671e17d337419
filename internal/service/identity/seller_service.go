package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/auth"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
)

// SellerDraft — данные регистрации нового продавца.
type SellerDraft struct {
	Email    string
	Password string
	Name     string
}

// SellerPatch — частичное обновление продавца; пустое поле не меняется.
type SellerPatch struct {
	Email    string
	Password string
	Name     string
}

// SellerService реализует реестр продавцов, зеркально ClientService.
type SellerService struct {
	repos   domain.Repositories
	hasher  domain.PasswordHasher
	logger  *log.Entry
	metrics *metrics.MarketplaceMetrics
}

// NewSellerService конструирует сервис с зависимостями.
func NewSellerService(
	repos domain.Repositories,
	hasher domain.PasswordHasher,
	m *metrics.MarketplaceMetrics,
	logger *log.Entry,
) *SellerService {
	if logger == nil {
		logger = log.New().WithField("component", "seller-service")
	}
	return &SellerService{repos: repos, hasher: hasher, metrics: m, logger: logger}
}

// Register создаёт продавца. Email не должен принадлежать покупателю
// (ErrCrossKindEmail); коллизия внутри вида — ErrDuplicateEntry из хранилища.
func (s *SellerService) Register(ctx context.Context, draft SellerDraft) (domain.Seller, error) {
	if draft.Password == "" {
		return domain.Seller{}, fmt.Errorf("password is required")
	}

	if _, err := s.repos.Clients().GetByEmail(draft.Email); err == nil {
		return domain.Seller{}, domain.ErrCrossKindEmail
	} else if !errors.Is(err, domain.ErrClientNotFound) {
		return domain.Seller{}, fmt.Errorf("check client email: %w", err)
	}

	hash, err := s.hasher.Hash(draft.Password)
	if err != nil {
		return domain.Seller{}, err
	}

	now := time.Now().UTC()
	seller := domain.Seller{
		ID:           uuid.NewString(),
		Email:        draft.Email,
		PasswordHash: hash,
		Name:         draft.Name,
		Version:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if errs := seller.ValidateInvariants(); len(errs) > 0 {
		return domain.Seller{}, errs[0]
	}

	created, err := s.repos.Sellers().Create(seller)
	if err != nil {
		s.logger.WithError(err).WithField("email", draft.Email).Warn("failed to register seller")
		return domain.Seller{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration(string(domain.PrincipalKindSeller))
	}
	return created, nil
}

// FindByID возвращает продавца; доступ только к собственной записи.
func (s *SellerService) FindByID(ctx context.Context, id string) (domain.Seller, error) {
	callerID, ok := auth.CurrentSeller(ctx)
	if !ok || callerID != id {
		return domain.Seller{}, domain.ErrUnauthorized
	}
	return s.repos.Sellers().Get(id)
}

// Self возвращает запись аутентифицированного продавца.
func (s *SellerService) Self(ctx context.Context) (domain.Seller, error) {
	callerID, ok := auth.CurrentSeller(ctx)
	if !ok {
		return domain.Seller{}, domain.ErrUnauthorized
	}
	return s.repos.Sellers().Get(callerID)
}

// Update применяет patch к собственной записи.
func (s *SellerService) Update(ctx context.Context, id string, patch SellerPatch) (domain.Seller, error) {
	callerID, ok := auth.CurrentSeller(ctx)
	if !ok || callerID != id {
		return domain.Seller{}, domain.ErrUnauthorized
	}

	seller, err := s.repos.Sellers().Get(id)
	if err != nil {
		return domain.Seller{}, err
	}

	if patch.Email != "" && patch.Email != seller.Email {
		if _, err := s.repos.Clients().GetByEmail(patch.Email); err == nil {
			return domain.Seller{}, domain.ErrCrossKindEmail
		} else if !errors.Is(err, domain.ErrClientNotFound) {
			return domain.Seller{}, fmt.Errorf("check client email: %w", err)
		}
		seller.Email = patch.Email
	}
	if patch.Name != "" {
		seller.Name = patch.Name
	}
	if patch.Password != "" {
		hash, err := s.hasher.Hash(patch.Password)
		if err != nil {
			return domain.Seller{}, err
		}
		seller.PasswordHash = hash
	}
	seller.UpdatedAt = time.Now().UTC()

	if err := s.repos.Sellers().Save(seller); err != nil {
		s.logger.WithError(err).WithField("seller_id", id).Warn("failed to update seller")
		return domain.Seller{}, err
	}

	return s.repos.Sellers().Get(id)
}

// Delete удаляет собственную запись; продавец с историей продаж не удаляется.
func (s *SellerService) Delete(ctx context.Context, id string) error {
	callerID, ok := auth.CurrentSeller(ctx)
	if !ok || callerID != id {
		return domain.ErrUnauthorized
	}

	seller, err := s.repos.Sellers().Get(id)
	if err != nil {
		return err
	}
	if seller.SellsCount > 0 {
		return domain.ErrHasActiveRelationships
	}

	return s.repos.Sellers().Delete(id)
}
