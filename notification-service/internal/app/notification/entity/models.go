package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailMessage - письмо из Kafka топика notification.emails.
// Формат общий для auth-service и clinic-service.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Kind    string `json:"kind"`
}

// Виды писем
const (
	EmailKindVerification         = "verification"
	EmailKindPasswordReset        = "password_reset"
	EmailKindAppointmentConfirmed = "appointment_confirmed"
	EmailKindAppointmentReminder  = "appointment_reminder"
)

// AppointmentStatus - статус приема в БД clinic-service
type AppointmentStatus string

// AppointmentStatusConfirmed - единственный статус, по которому рассылаются напоминания
const AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"

// Appointment - read-модель записи на прием из БД clinic-service.
// Notification-service только читает приемы и помечает отправленные напоминания.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey"`
	PatientUsername string            `gorm:"type:varchar(50)"`
	DentistID       uuid.UUID         `gorm:"type:uuid"`
	ServiceID       uuid.UUID         `gorm:"type:uuid"`
	ScheduledAt     time.Time
	Status          AppointmentStatus `gorm:"type:varchar(20)"`
	ReminderSent    bool

	Dentist *Dentist       `gorm:"foreignKey:DentistID"`
	Service *DentalService `gorm:"foreignKey:ServiceID"`
}

// TableName указывает имя таблицы для GORM
func (Appointment) TableName() string {
	return "appointments"
}

// Dentist - read-модель врача для текста напоминания
type Dentist struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"type:varchar(50)"`
	FullName  string    `gorm:"type:varchar(255)"`
	Specialty string    `gorm:"type:varchar(100)"`
}

// TableName указывает имя таблицы для GORM
func (Dentist) TableName() string {
	return "dentists"
}

// DentalService - read-модель услуги для текста напоминания
type DentalService struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255)"`
	DurationMin int
}

// TableName указывает имя таблицы для GORM
func (DentalService) TableName() string {
	return "services"
}

// UserInfo - пользователь из справочника auth-service
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Enabled  bool   `json:"enabled"`
}
