package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dentalcare/notification-service/internal/app/notification/entity"
	"dentalcare/notification-service/internal/app/notification/service"
	"dentalcare/pkg/logger"
	"dentalcare/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaConsumer читает письма из топика notification.emails и отправляет их
type KafkaConsumer struct {
	reader   *kafka.Reader
	sender   service.EmailSender
	topic    string
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	sender service.EmailSender,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		StartOffset: kafka.LastOffset,
		// Настройки для автоматического коммита offset
		CommitInterval: time.Second,
		// Таймауты
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		sender:   sender,
		topic:    topic,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().
		Str("topic", c.topic).
		Str("group", c.groupID).
		Msg("Starting Kafka consumer")

	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				// Если контекст был отменен, выходим
				if ctx.Err() != nil {
					return
				}

				logger.Error().Err(err).Msg("Error fetching message")
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				metrics.KafkaErrors.WithLabelValues("notification-service", c.topic, "consume").Inc()
				logger.Error().Err(err).
					Int64("offset", message.Offset).
					Msg("Error processing message")
				// Не коммитим offset при ошибке - сообщение будет повторно обработано
			} else {
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					logger.Error().Err(err).Msg("Error committing message")
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	start := time.Now()

	var email entity.EmailMessage
	if err := json.Unmarshal(message.Value, &email); err != nil {
		return fmt.Errorf("failed to unmarshal email message: %w", err)
	}

	if email.To == "" {
		return fmt.Errorf("email message without recipient (offset: %d)", message.Offset)
	}

	logger.Info().
		Str("to", email.To).
		Str("kind", email.Kind).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received email message")

	if err := c.sender.Send(ctx, &email); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	metrics.KafkaMessagesConsumed.WithLabelValues("notification-service", c.topic, c.groupID).Inc()
	metrics.KafkaConsumeDuration.WithLabelValues("notification-service", c.topic).Observe(time.Since(start).Seconds())

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
