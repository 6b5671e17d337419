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

// ClientDraft — данные регистрации нового покупателя.
type ClientDraft struct {
	Email    string
	Password string
	Name     string
}

// ClientPatch — частичное обновление покупателя; пустое поле не меняется.
type ClientPatch struct {
	Email    string
	Password string
	Name     string
}

// ClientService реализует реестр покупателей: регистрацию с проверкой
// уникальности email между видами участников и self-gated операции.
type ClientService struct {
	repos   domain.Repositories
	hasher  domain.PasswordHasher
	logger  *log.Entry
	metrics *metrics.MarketplaceMetrics
}

// NewClientService конструирует сервис с зависимостями.
func NewClientService(
	repos domain.Repositories,
	hasher domain.PasswordHasher,
	m *metrics.MarketplaceMetrics,
	logger *log.Entry,
) *ClientService {
	if logger == nil {
		logger = log.New().WithField("component", "client-service")
	}
	return &ClientService{repos: repos, hasher: hasher, metrics: m, logger: logger}
}

// Register создаёт покупателя. Email не должен принадлежать продавцу
// (ErrCrossKindEmail); коллизия внутри вида приходит из хранилища как
// ErrDuplicateEntry, без предварительной проверки.
func (s *ClientService) Register(ctx context.Context, draft ClientDraft) (domain.Client, error) {
	if draft.Password == "" {
		return domain.Client{}, fmt.Errorf("password is required")
	}

	if _, err := s.repos.Sellers().GetByEmail(draft.Email); err == nil {
		return domain.Client{}, domain.ErrCrossKindEmail
	} else if !errors.Is(err, domain.ErrSellerNotFound) {
		return domain.Client{}, fmt.Errorf("check seller email: %w", err)
	}

	hash, err := s.hasher.Hash(draft.Password)
	if err != nil {
		return domain.Client{}, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:           uuid.NewString(),
		Email:        draft.Email,
		PasswordHash: hash,
		Name:         draft.Name,
		Version:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if errs := client.ValidateInvariants(); len(errs) > 0 {
		return domain.Client{}, errs[0]
	}

	created, err := s.repos.Clients().Create(client)
	if err != nil {
		s.logger.WithError(err).WithField("email", draft.Email).Warn("failed to register client")
		return domain.Client{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration(string(domain.PrincipalKindClient))
	}
	return created, nil
}

// FindByID возвращает покупателя. Доступ только к собственной записи:
// чужой или неаутентифицированный вызов получает ErrUnauthorized.
func (s *ClientService) FindByID(ctx context.Context, id string) (domain.Client, error) {
	callerID, ok := auth.CurrentClient(ctx)
	if !ok || callerID != id {
		return domain.Client{}, domain.ErrUnauthorized
	}
	return s.repos.Clients().Get(id)
}

// Self возвращает запись аутентифицированного покупателя.
func (s *ClientService) Self(ctx context.Context) (domain.Client, error) {
	callerID, ok := auth.CurrentClient(ctx)
	if !ok {
		return domain.Client{}, domain.ErrUnauthorized
	}
	return s.repos.Clients().Get(callerID)
}

// Update применяет patch к собственной записи. Новый email не должен
// принадлежать продавцу; пароль при смене перехешируется.
func (s *ClientService) Update(ctx context.Context, id string, patch ClientPatch) (domain.Client, error) {
	callerID, ok := auth.CurrentClient(ctx)
	if !ok || callerID != id {
		return domain.Client{}, domain.ErrUnauthorized
	}

	client, err := s.repos.Clients().Get(id)
	if err != nil {
		return domain.Client{}, err
	}

	if patch.Email != "" && patch.Email != client.Email {
		if _, err := s.repos.Sellers().GetByEmail(patch.Email); err == nil {
			return domain.Client{}, domain.ErrCrossKindEmail
		} else if !errors.Is(err, domain.ErrSellerNotFound) {
			return domain.Client{}, fmt.Errorf("check seller email: %w", err)
		}
		client.Email = patch.Email
	}
	if patch.Name != "" {
		client.Name = patch.Name
	}
	if patch.Password != "" {
		hash, err := s.hasher.Hash(patch.Password)
		if err != nil {
			return domain.Client{}, err
		}
		client.PasswordHash = hash
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.repos.Clients().Save(client); err != nil {
		s.logger.WithError(err).WithField("client_id", id).Warn("failed to update client")
		return domain.Client{}, err
	}

	return s.repos.Clients().Get(id)
}

// Delete удаляет собственную запись. Участник с историей сделок не удаляется:
// записи о покупках ссылаются на него.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	callerID, ok := auth.CurrentClient(ctx)
	if !ok || callerID != id {
		return domain.ErrUnauthorized
	}

	client, err := s.repos.Clients().Get(id)
	if err != nil {
		return err
	}
	if client.BuysCount > 0 {
		return domain.ErrHasActiveRelationships
	}

	return s.repos.Clients().Delete(id)
}
