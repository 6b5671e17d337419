package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// PasswordService сбрасывает пароль участника: генерирует новый, сохраняет
// хеш и отправляет пароль через Notifier. Доставка best-effort: её сбой
// не откатывает уже сохранённый пароль, только логируется.
type PasswordService struct {
	repos    domain.Repositories
	hasher   domain.PasswordHasher
	notifier domain.Notifier
	logger   *log.Entry
}

// NewPasswordService конструирует сервис с зависимостями.
func NewPasswordService(
	repos domain.Repositories,
	hasher domain.PasswordHasher,
	notifier domain.Notifier,
	logger *log.Entry,
) *PasswordService {
	if logger == nil {
		logger = log.New().WithField("component", "password-service")
	}
	return &PasswordService{repos: repos, hasher: hasher, notifier: notifier, logger: logger}
}

// Reset генерирует и сохраняет новый пароль участника указанного вида.
func (s *PasswordService) Reset(ctx context.Context, email string, kind domain.PrincipalKind) error {
	newPassword := uuid.NewString()
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	switch kind {
	case domain.PrincipalKindClient:
		client, err := s.repos.Clients().GetByEmail(email)
		if err != nil {
			return err
		}
		client.PasswordHash = hash
		client.UpdatedAt = time.Now().UTC()
		if err := s.repos.Clients().Save(client); err != nil {
			return err
		}
	case domain.PrincipalKindSeller:
		seller, err := s.repos.Sellers().GetByEmail(email)
		if err != nil {
			return err
		}
		seller.PasswordHash = hash
		seller.UpdatedAt = time.Now().UTC()
		if err := s.repos.Sellers().Save(seller); err != nil {
			return err
		}
	default:
		return domain.ErrUnauthorized
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyPasswordReset(ctx, email, newPassword); err != nil {
			s.logger.WithError(err).WithField("email", email).Warn("failed to deliver password reset notification")
		}
	}
	return nil
}
