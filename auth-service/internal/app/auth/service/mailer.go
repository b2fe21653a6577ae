package service

import (
	"context"
	"encoding/json"
	"fmt"

	"dentalcare/auth-service/internal/app/auth/entity"
)

// kafkaMailer публикует письма в Kafka топик notification.emails.
// Фактическую доставку выполняет notification-service.
type kafkaMailer struct {
	producer MessageProducer
}

// NewKafkaMailer создает Mailer поверх Kafka producer
func NewKafkaMailer(producer MessageProducer) Mailer {
	return &kafkaMailer{producer: producer}
}

// Send сериализует письмо и публикует его; ключ сообщения - адресат,
// чтобы письма одному получателю попадали в одну партицию
func (m *kafkaMailer) Send(ctx context.Context, msg *entity.EmailMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	if err := m.producer.PublishMessage(ctx, msg.To, value); err != nil {
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	return nil
}
