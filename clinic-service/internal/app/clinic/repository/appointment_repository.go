package repository

import (
	"context"
	"errors"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository создает новый репозиторий приемов
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create создает новую запись на прием
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	result := r.db.WithContext(ctx).Create(appointment)
	return result.Error
}

// GetByID получает прием вместе с врачом и услугой
func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	result := r.db.WithContext(ctx).
		Preload("Dentist").
		Preload("Service").
		First(&appointment, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, result.Error
	}

	return &appointment, nil
}

// GetByPatient получает все приемы пациента
func (r *appointmentRepository) GetByPatient(ctx context.Context, username string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	result := r.db.WithContext(ctx).
		Preload("Dentist").
		Preload("Service").
		Where("patient_username = ?", username).
		Order("scheduled_at DESC").
		Find(&appointments)

	if result.Error != nil {
		return nil, result.Error
	}

	return appointments, nil
}

// GetByDentist получает все приемы врача
func (r *appointmentRepository) GetByDentist(ctx context.Context, dentistID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	result := r.db.WithContext(ctx).
		Preload("Service").
		Where("dentist_id = ?", dentistID).
		Order("scheduled_at DESC").
		Find(&appointments)

	if result.Error != nil {
		return nil, result.Error
	}

	return appointments, nil
}

// List получает страницу всех приемов
func (r *appointmentRepository) List(ctx context.Context, limit, offset int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	result := r.db.WithContext(ctx).
		Preload("Dentist").
		Preload("Service").
		Order("scheduled_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&appointments)

	if result.Error != nil {
		return nil, result.Error
	}

	return appointments, nil
}

// Update обновляет изменяемые поля приема
func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	result := r.db.WithContext(ctx).Model(appointment).
		Where("id = ?", appointment.ID).
		Updates(map[string]interface{}{
			"dentist_id":   appointment.DentistID,
			"service_id":   appointment.ServiceID,
			"scheduled_at": appointment.ScheduledAt,
			"notes":        appointment.Notes,
			"status":       appointment.Status,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// ListForReminder возвращает подтвержденные приемы в интервале без
// отправленного напоминания
func (r *appointmentRepository) ListForReminder(ctx context.Context, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	result := r.db.WithContext(ctx).
		Preload("Dentist").
		Preload("Service").
		Where("status = ?", entity.AppointmentStatusConfirmed).
		Where("reminder_sent = ?", false).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at").
		Find(&appointments)

	if result.Error != nil {
		return nil, result.Error
	}

	return appointments, nil
}

// MarkReminderSent помечает прием как получивший напоминание
func (r *appointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("reminder_sent", true)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}
