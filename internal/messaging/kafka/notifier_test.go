package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type stubPublisher struct {
	topics []string
	keys   []string
	events []interface{}
	err    error
}

func (s *stubPublisher) PublishEvent(topic string, key string, event interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.topics = append(s.topics, topic)
	s.keys = append(s.keys, key)
	s.events = append(s.events, event)
	return nil
}

func TestNotifyPurchase(t *testing.T) {
	stub := &stubPublisher{}
	notifier := NewNotifier(stub)

	order := domain.Order{ID: "o-1", ProductID: "p-1", BuyerID: "c-1", SellerID: "s-1", PriceMinor: 100}
	product := domain.Product{ID: "p-1", Name: "PS5", OwnerID: "s-1"}

	if err := notifier.NotifyPurchase(context.Background(), order, product); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(stub.topics) != 1 || stub.topics[0] != TopicPurchaseEvents {
		t.Fatalf("expected purchase topic, got %v", stub.topics)
	}
	if stub.keys[0] != "o-1" {
		t.Fatalf("purchase events must be keyed by order id, got %s", stub.keys[0])
	}

	event, ok := stub.events[0].(*PurchaseEvent)
	if !ok {
		t.Fatalf("expected PurchaseEvent, got %T", stub.events[0])
	}
	if event.EventType != EventTypePurchaseCompleted || event.ProductName != "PS5" || event.PriceMinor != 100 {
		t.Fatalf("event fields mismatch: %+v", event)
	}
}

func TestNotifyPasswordReset(t *testing.T) {
	stub := &stubPublisher{}
	notifier := NewNotifier(stub)

	if err := notifier.NotifyPasswordReset(context.Background(), "rene@mail.com", "new-secret"); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if stub.topics[0] != TopicPrincipalEvents || stub.keys[0] != "rene@mail.com" {
		t.Fatalf("expected principal topic keyed by email, got %v %v", stub.topics, stub.keys)
	}

	event, ok := stub.events[0].(*PasswordResetEvent)
	if !ok {
		t.Fatalf("expected PasswordResetEvent, got %T", stub.events[0])
	}
	if event.NewPassword != "new-secret" {
		t.Fatalf("event must carry the new password for the mail worker, got %+v", event)
	}
}

func TestNotifier_PublishError(t *testing.T) {
	stub := &stubPublisher{err: errors.New("broker down")}
	notifier := NewNotifier(stub)

	if err := notifier.NotifyPurchase(context.Background(), domain.Order{ID: "o-1"}, domain.Product{ID: "p-1"}); err == nil {
		t.Fatal("expected publish error")
	}
	if err := notifier.NotifyPasswordReset(context.Background(), "rene@mail.com", "x"); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestParsePurchaseEvent(t *testing.T) {
	src := NewPurchaseEvent("o-1", "p-1", "PS5", "c-1", "s-1", 100)
	payload, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	parsed, err := ParsePurchaseEvent(&sarama.ConsumerMessage{Value: payload})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.OrderID != "o-1" || parsed.PriceMinor != 100 {
		t.Fatalf("parsed event mismatch: %+v", parsed)
	}

	if _, err := ParsePurchaseEvent(&sarama.ConsumerMessage{Value: []byte("{broken")}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParsePasswordResetEvent(t *testing.T) {
	src := NewPasswordResetEvent("rene@mail.com", "new-secret")
	payload, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	parsed, err := ParsePasswordResetEvent(&sarama.ConsumerMessage{Value: payload})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.Email != "rene@mail.com" || parsed.NewPassword != "new-secret" {
		t.Fatalf("parsed event mismatch: %+v", parsed)
	}
}
