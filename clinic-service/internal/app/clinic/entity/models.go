package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Роли из access токена auth-service
const (
	RoleAdmin        = "ADMIN"
	RoleReceptionist = "RECEPTIONIST"
	RoleDentist      = "DENTIST"
	RoleCustomer     = "CUSTOMER"
	RolePatient      = "PATIENT"
)

// Dentist представляет врача клиники
type Dentist struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"` // логин в auth-service
	FullName  string    `json:"full_name" gorm:"type:varchar(255);not null"`
	Specialty string    `json:"specialty" gorm:"type:varchar(100);not null"`
	Bio       string    `json:"bio,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы для GORM
func (Dentist) TableName() string {
	return "dentists"
}

// DentalService представляет услугу из прейскуранта клиники
type DentalService struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	DurationMin int       `json:"duration_min" gorm:"not null;check:duration_min > 0"` // длительность приема в минутах
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы для GORM
func (DentalService) TableName() string {
	return "services"
}

// AppointmentStatus представляет статусы приема
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"   // Создан, ждет подтверждения
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED" // Подтвержден регистратурой
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED" // Прием состоялся (терминальный)
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED" // Отменен (терминальный)
)

// Appointment представляет запись на прием
type Appointment struct {
	ID                   uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	PatientUsername      string            `json:"patient_username" gorm:"type:varchar(50);not null;index"`
	ReceptionistUsername string            `json:"receptionist_username" gorm:"type:varchar(50);not null"`
	DentistID            uuid.UUID         `json:"dentist_id" gorm:"type:uuid;not null;index"`
	ServiceID            uuid.UUID         `json:"service_id" gorm:"type:uuid;not null"`
	ScheduledAt          time.Time         `json:"scheduled_at" gorm:"not null;index"`
	Notes                string            `json:"notes,omitempty" gorm:"type:text"`
	Status               AppointmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	ReminderSent         bool              `json:"-" gorm:"not null;default:false"`
	CreatedAt            time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time         `json:"updated_at" gorm:"autoUpdateTime"`

	Dentist *Dentist       `json:"dentist,omitempty" gorm:"foreignKey:DentistID"`
	Service *DentalService `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// TableName указывает имя таблицы для GORM
func (Appointment) TableName() string {
	return "appointments"
}

// PatientRecord представляет запись в медицинской карте (MongoDB)
type PatientRecord struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientUsername string             `json:"patient_username" bson:"patient_username"`
	DentistUsername string             `json:"dentist_username" bson:"dentist_username"`
	AppointmentID   string             `json:"appointment_id,omitempty" bson:"appointment_id,omitempty"`
	Diagnosis       string             `json:"diagnosis" bson:"diagnosis"`
	TreatmentPlan   string             `json:"treatment_plan,omitempty" bson:"treatment_plan,omitempty"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// AppointmentEvent представляет событие жизненного цикла приема для Kafka
type AppointmentEvent struct {
	EventType       string            `json:"event_type"` // APPOINTMENT_CREATED, _CONFIRMED, _COMPLETED, _CANCELLED
	AppointmentID   uuid.UUID         `json:"appointment_id"`
	PatientUsername string            `json:"patient_username"`
	DentistID       uuid.UUID         `json:"dentist_id"`
	ServiceID       uuid.UUID         `json:"service_id"`
	ScheduledAt     time.Time         `json:"scheduled_at"`
	Status          AppointmentStatus `json:"status"`
	Timestamp       time.Time         `json:"timestamp"`
}

// Виды событий приема
const (
	EventAppointmentCreated   = "APPOINTMENT_CREATED"
	EventAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
)

// EmailMessage - письмо, публикуемое в Kafka для notification-service.
// Формат общий с auth-service.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Kind    string `json:"kind"`
}

// Виды писем
const (
	EmailKindAppointmentConfirmed = "appointment_confirmed"
	EmailKindAppointmentReminder  = "appointment_reminder"
)

// UserInfo - пользователь из справочника auth-service
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Enabled  bool   `json:"enabled"`
}
