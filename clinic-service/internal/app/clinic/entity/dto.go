package entity

import (
	"time"

	"github.com/google/uuid"
)

// CreateAppointmentRequest - запрос регистратуры на создание приема
type CreateAppointmentRequest struct {
	PatientUsername string    `json:"patient_username" validate:"required,min=3,max=50"`
	DentistID       uuid.UUID `json:"dentist_id" validate:"required"`
	ServiceID       uuid.UUID `json:"service_id" validate:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	Notes           string    `json:"notes,omitempty" validate:"max=2000"`
}

// UpdateAppointmentRequest - перенос времени или правка заметок.
// Админ дополнительно может сменить врача и услугу.
type UpdateAppointmentRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	DentistID   *uuid.UUID `json:"dentist_id,omitempty"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
}

// CreateDentistRequest - добавление врача в справочник
type CreateDentistRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	FullName  string `json:"full_name" validate:"required,max=255"`
	Specialty string `json:"specialty" validate:"required,max=100"`
	Bio       string `json:"bio,omitempty"`
}

// UpdateDentistRequest - правка данных врача
type UpdateDentistRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Specialty *string `json:"specialty,omitempty" validate:"omitempty,max=100"`
	Bio       *string `json:"bio,omitempty"`
}

// CreateServiceRequest - добавление услуги в прейскурант
type CreateServiceRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	DurationMin int     `json:"duration_min" validate:"required,gt=0"`
}

// UpdateServiceRequest - правка услуги
type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	DurationMin *int     `json:"duration_min,omitempty" validate:"omitempty,gt=0"`
}

// CreatePatientRecordRequest - новая запись в медкарте
type CreatePatientRecordRequest struct {
	PatientUsername string `json:"patient_username" validate:"required,min=3,max=50"`
	AppointmentID   string `json:"appointment_id,omitempty"`
	Diagnosis       string `json:"diagnosis" validate:"required,max=2000"`
	TreatmentPlan   string `json:"treatment_plan,omitempty" validate:"max=5000"`
	Notes           string `json:"notes,omitempty" validate:"max=5000"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
