package notification

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// PurchaseNotification фиксирует один вызов NotifyPurchase.
type PurchaseNotification struct {
	Order   domain.Order
	Product domain.Product
}

// PasswordResetNotification фиксирует один вызов NotifyPasswordReset.
type PasswordResetNotification struct {
	Email       string
	NewPassword string
}

// MockNotifier — конфигурируемая заглушка Notifier для тестов и локального
// запуска без Kafka. Потокобезопасна: движок шлёт уведомления из горутин.
type MockNotifier struct {
	PurchaseErr error
	ResetErr    error

	mu        sync.Mutex
	purchases []PurchaseNotification
	resets    []PasswordResetNotification
}

// NewMockNotifier возвращает mock с успешным сценарием по умолчанию.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyPurchase записывает уведомление и возвращает настроенный результат.
func (m *MockNotifier) NotifyPurchase(ctx context.Context, order domain.Order, product domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PurchaseErr != nil {
		return m.PurchaseErr
	}
	m.purchases = append(m.purchases, PurchaseNotification{Order: order, Product: product})
	return nil
}

// NotifyPasswordReset записывает уведомление и возвращает настроенный результат.
func (m *MockNotifier) NotifyPasswordReset(ctx context.Context, email, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ResetErr != nil {
		return m.ResetErr
	}
	m.resets = append(m.resets, PasswordResetNotification{Email: email, NewPassword: newPassword})
	return nil
}

// Purchases возвращает копию записанных уведомлений о покупках.
func (m *MockNotifier) Purchases() []PurchaseNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]PurchaseNotification, len(m.purchases))
	copy(result, m.purchases)
	return result
}

// Resets возвращает копию записанных уведомлений о сбросе пароля.
func (m *MockNotifier) Resets() []PasswordResetNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]PasswordResetNotification, len(m.resets))
	copy(result, m.resets)
	return result
}

var _ domain.Notifier = (*MockNotifier)(nil)
