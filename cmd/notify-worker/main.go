package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/messaging/kafka"
)

const defaultGroupID = "marketplace-notify-worker"

type config struct {
	brokers []string
	groupID string
	retries int
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg, err := readConfig()
	if err != nil {
		fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fail("notify worker failed: %v", err)
	}

	log.Info("notify worker остановлен")
}

func readConfig() (config, error) {
	var (
		brokersRaw string
		cfg        config
	)

	flag.StringVar(&brokersRaw, "brokers", "", "Kafka brokers as comma-separated list (fallback: KAFKA_BROKERS)")
	flag.StringVar(&cfg.groupID, "group", defaultGroupID, "consumer group id")
	flag.IntVar(&cfg.retries, "retries", 3, "max processing retries before DLQ")
	flag.Parse()

	if strings.TrimSpace(brokersRaw) == "" {
		brokersRaw = os.Getenv("KAFKA_BROKERS")
	}

	cfg.brokers = parseBrokers(brokersRaw)
	if len(cfg.brokers) == 0 {
		return config{}, fmt.Errorf("kafka brokers are required (-brokers or KAFKA_BROKERS)")
	}
	if cfg.retries < 0 {
		return config{}, fmt.Errorf("retries must be >= 0")
	}

	return cfg, nil
}

func parseBrokers(raw string) []string {
	chunks := strings.Split(raw, ",")
	brokers := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		broker := strings.TrimSpace(chunk)
		if broker == "" {
			continue
		}
		brokers = append(brokers, broker)
	}
	return brokers
}

func run(ctx context.Context, cfg config) error {
	dlqProducer, err := kafka.NewProducer(cfg.brokers)
	if err != nil {
		return fmt.Errorf("create dlq producer: %w", err)
	}
	defer func() { _ = dlqProducer.Close() }()

	topics := []string{kafka.TopicPurchaseEvents, kafka.TopicPrincipalEvents}
	consumer, err := kafka.NewConsumerWithDLQ(cfg.brokers, cfg.groupID, topics, handleMessage, dlqProducer, cfg.retries)
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}

	<-ctx.Done()
	return consumer.Stop()
}

// handleMessage разбирает событие и доставляет уведомление. Почтового
// шлюза здесь нет, доставка — структурированная запись в лог.
// TODO: подключить SMTP-шлюз, когда появится его адрес в конфигурации.
func handleMessage(_ context.Context, message *sarama.ConsumerMessage) error {
	switch message.Topic {
	case kafka.TopicPurchaseEvents:
		event, err := kafka.ParsePurchaseEvent(message)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"order_id":    event.OrderID,
			"product":     event.ProductName,
			"buyer_id":    event.BuyerID,
			"seller_id":   event.SellerID,
			"price_minor": event.PriceMinor,
		}).Info("purchase confirmation delivered")
		return nil
	case kafka.TopicPrincipalEvents:
		event, err := kafka.ParsePasswordResetEvent(message)
		if err != nil {
			return err
		}
		log.WithField("email", event.Email).Info("password reset mail delivered")
		return nil
	default:
		return fmt.Errorf("unexpected topic: %s", message.Topic)
	}
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
