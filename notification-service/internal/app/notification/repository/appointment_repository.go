package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalcare/notification-service/internal/app/notification/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAppointmentNotFound возвращается когда прием не найден в БД clinic-service
var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentRepository - read-only доступ к приемам из БД clinic-service
type AppointmentRepository interface {
	// ListForReminder возвращает подтвержденные приемы в окне [from, to)
	// без отправленного напоминания
	ListForReminder(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error)
	// MarkReminderSent помечает прием как получивший напоминание
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository создает новый репозиторий приемов
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) ListForReminder(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	var appointments []*entity.Appointment

	err := r.db.WithContext(ctx).
		Preload("Dentist").
		Preload("Service").
		Where("status = ?", entity.AppointmentStatusConfirmed).
		Where("reminder_sent = ?", false).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for reminder: %w", err)
	}

	return appointments, nil
}

func (r *appointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("reminder_sent", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}
