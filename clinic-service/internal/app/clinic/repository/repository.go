package repository

import (
	"context"
	"errors"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDentistNotFound     = errors.New("dentist not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrRecordNotFound      = errors.New("patient record not found")
	ErrDuplicate           = errors.New("duplicate key")
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	GetByPatient(ctx context.Context, username string) ([]entity.Appointment, error)
	GetByDentist(ctx context.Context, dentistID uuid.UUID) ([]entity.Appointment, error)
	List(ctx context.Context, limit, offset int) ([]entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	// ListForReminder возвращает подтвержденные приемы в интервале,
	// для которых еще не отправлено напоминание
	ListForReminder(ctx context.Context, from, to time.Time) ([]entity.Appointment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

type DentistRepository interface {
	Create(ctx context.Context, dentist *entity.Dentist) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Dentist, error)
	GetByUsername(ctx context.Context, username string) (*entity.Dentist, error)
	List(ctx context.Context) ([]entity.Dentist, error)
	Update(ctx context.Context, dentist *entity.Dentist) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.DentalService) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DentalService, error)
	List(ctx context.Context) ([]entity.DentalService, error)
	Update(ctx context.Context, service *entity.DentalService) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PatientRecordRepository - медицинские карты в MongoDB
type PatientRecordRepository interface {
	Create(ctx context.Context, record *entity.PatientRecord) error
	GetByID(ctx context.Context, id string) (*entity.PatientRecord, error)
	GetByPatient(ctx context.Context, username string) ([]entity.PatientRecord, error)
	Update(ctx context.Context, record *entity.PatientRecord) error
	Delete(ctx context.Context, id string) error
}
