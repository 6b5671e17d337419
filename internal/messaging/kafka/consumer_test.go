package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestConsumer(handler MessageHandler, dlq *Producer, maxRetries int) *Consumer {
	return &Consumer{
		handler:     handler,
		logger:      log.WithField("component", "kafka-consumer-test"),
		dlqProducer: dlq,
		maxRetries:  maxRetries,
	}
}

func TestGetRetryCount(t *testing.T) {
	c := newTestConsumer(nil, nil, 3)

	require.Equal(t, 0, c.getRetryCount(&sarama.ConsumerMessage{}))

	withHeader := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{
			{Key: []byte(HeaderRetryCount), Value: []byte("2")},
		},
	}
	require.Equal(t, 2, c.getRetryCount(withHeader))

	broken := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{
			{Key: []byte(HeaderRetryCount), Value: []byte("not-a-number")},
		},
	}
	require.Equal(t, 0, c.getRetryCount(broken))
}

func TestHandleMessageWithRetry_Success(t *testing.T) {
	c := newTestConsumer(func(context.Context, *sarama.ConsumerMessage) error {
		return nil
	}, nil, 3)

	err := c.handleMessageWithRetry(context.Background(), &sarama.ConsumerMessage{Topic: TopicPurchaseEvents})
	require.NoError(t, err)
}

// Пока лимит retry не исчерпан, ошибка возвращается наружу и сообщение
// не маркируется обработанным.
func TestHandleMessageWithRetry_UnderLimit(t *testing.T) {
	handlerErr := errors.New("smtp unavailable")
	c := newTestConsumer(func(context.Context, *sarama.ConsumerMessage) error {
		return handlerErr
	}, nil, 3)

	message := &sarama.ConsumerMessage{
		Topic: TopicPurchaseEvents,
		Headers: []*sarama.RecordHeader{
			{Key: []byte(HeaderRetryCount), Value: []byte("1")},
		},
	}

	err := c.handleMessageWithRetry(context.Background(), message)
	require.ErrorIs(t, err, handlerErr)
}

// Исчерпанные попытки уводят сообщение в DLQ, и оно считается обработанным.
func TestHandleMessageWithRetry_SendsToDLQ(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndSucceed()

	dlq := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	c := newTestConsumer(func(context.Context, *sarama.ConsumerMessage) error {
		return errors.New("smtp unavailable")
	}, dlq, 3)

	message := &sarama.ConsumerMessage{
		Topic: TopicPurchaseEvents,
		Key:   []byte("order-123"),
		Value: []byte(`{"event_type":"purchase.completed"}`),
		Headers: []*sarama.RecordHeader{
			{Key: []byte(HeaderRetryCount), Value: []byte("3")},
		},
	}

	err := c.handleMessageWithRetry(context.Background(), message)
	require.NoError(t, err)
	require.NoError(t, mockProducer.Close())
}

// Без DLQ producer ошибка после исчерпания retry остаётся у вызывающего.
func TestHandleMessageWithRetry_NoDLQ(t *testing.T) {
	handlerErr := errors.New("smtp unavailable")
	c := newTestConsumer(func(context.Context, *sarama.ConsumerMessage) error {
		return handlerErr
	}, nil, 3)

	message := &sarama.ConsumerMessage{
		Topic: TopicPurchaseEvents,
		Headers: []*sarama.RecordHeader{
			{Key: []byte(HeaderRetryCount), Value: []byte("3")},
		},
	}

	err := c.handleMessageWithRetry(context.Background(), message)
	require.ErrorIs(t, err, handlerErr)
}
