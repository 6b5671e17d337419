package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События покупки
	EventTypePurchaseCompleted EventType = "purchase.completed"

	// События участников
	EventTypePasswordReset    EventType = "principal.password_reset"
	EventTypeClientRegistered EventType = "principal.client_registered"
	EventTypeSellerRegistered EventType = "principal.seller_registered"
)

// Topics для Kafka
const (
	TopicPurchaseEvents  = "marketplace.purchase.events"
	TopicPrincipalEvents = "marketplace.principal.events"
	TopicDeadLetterQueue = "marketplace.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// PurchaseEvent представляет событие завершённой покупки.
type PurchaseEvent struct {
	EventType   EventType `json:"event_type"`
	OrderID     string    `json:"order_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	BuyerID     string    `json:"buyer_id"`
	SellerID    string    `json:"seller_id"`
	PriceMinor  int64     `json:"price_minor"`
	Timestamp   time.Time `json:"timestamp"`
}

// PasswordResetEvent представляет событие сброса пароля. Новый пароль
// нужен воркеру доставки, чтобы собрать письмо получателю.
type PasswordResetEvent struct {
	EventType   EventType `json:"event_type"`
	Email       string    `json:"email"`
	NewPassword string    `json:"new_password"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewPurchaseEvent создаёт событие завершённой покупки.
func NewPurchaseEvent(orderID, productID, productName, buyerID, sellerID string, priceMinor int64) *PurchaseEvent {
	return &PurchaseEvent{
		EventType:   EventTypePurchaseCompleted,
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		BuyerID:     buyerID,
		SellerID:    sellerID,
		PriceMinor:  priceMinor,
		Timestamp:   time.Now(),
	}
}

// NewPasswordResetEvent создаёт событие сброса пароля.
func NewPasswordResetEvent(email, newPassword string) *PasswordResetEvent {
	return &PasswordResetEvent{
		EventType:   EventTypePasswordReset,
		Email:       email,
		NewPassword: newPassword,
		Timestamp:   time.Now(),
	}
}
