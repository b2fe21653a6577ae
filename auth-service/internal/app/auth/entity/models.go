package entity

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей клиники. Хранятся единственным строковым полем:
// отдельной таблицы ролей нет, права целиком определяются этим значением.
const (
	RoleAdmin        = "ADMIN"
	RoleReceptionist = "RECEPTIONIST"
	RoleDentist      = "DENTIST"
	RoleCustomer     = "CUSTOMER"
	RolePatient      = "PATIENT"
)

// IsValidRole проверяет, что строка - известная роль
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleReceptionist, RoleDentist, RoleCustomer, RolePatient:
		return true
	}
	return false
}

// User представляет пользователя в системе
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"` // не возвращаем в JSON
	FullName      string    `json:"full_name" db:"full_name"`
	AvatarURL     string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Role          string    `json:"role" db:"role"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	Enabled       bool      `json:"enabled" db:"enabled"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // всегда "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // время жизни access token в секундах
}

// EmailMessage - письмо, публикуемое в Kafka для notification-service
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Kind    string `json:"kind"` // verification, password_reset
}

// Виды писем
const (
	EmailKindVerification  = "verification"
	EmailKindPasswordReset = "password_reset"
)
