package kafka

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// EventPublisher — минимальный контракт publisher'а, который нужен notifier'у.
// *Producer реализует его; тесты подставляют заглушку.
type EventPublisher interface {
	PublishEvent(topic string, key string, event interface{}) error
}

// Notifier публикует уведомления marketplace как события Kafka. Воркер
// доставки (cmd/notify-worker) превращает их в письма получателям.
type Notifier struct {
	publisher EventPublisher
	logger    *log.Entry
}

// NewNotifier создаёт notifier поверх publisher'а.
func NewNotifier(publisher EventPublisher) *Notifier {
	return &Notifier{
		publisher: publisher,
		logger:    log.WithField("component", "kafka-notifier"),
	}
}

// NotifyPurchase публикует событие завершённой покупки. Ключ — order ID,
// чтобы события одного заказа попадали в одну партицию.
func (n *Notifier) NotifyPurchase(ctx context.Context, order domain.Order, product domain.Product) error {
	event := NewPurchaseEvent(order.ID, product.ID, product.Name, order.BuyerID, order.SellerID, order.PriceMinor)
	if err := n.publisher.PublishEvent(TopicPurchaseEvents, order.ID, event); err != nil {
		return fmt.Errorf("failed to publish purchase event: %w", err)
	}

	n.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"product_id": product.ID,
	}).Debug("purchase event published")
	return nil
}

// NotifyPasswordReset публикует событие сброса пароля, ключ — email.
func (n *Notifier) NotifyPasswordReset(ctx context.Context, email, newPassword string) error {
	event := NewPasswordResetEvent(email, newPassword)
	if err := n.publisher.PublishEvent(TopicPrincipalEvents, email, event); err != nil {
		return fmt.Errorf("failed to publish password reset event: %w", err)
	}

	n.logger.WithField("email", email).Debug("password reset event published")
	return nil
}

var _ domain.Notifier = (*Notifier)(nil)
