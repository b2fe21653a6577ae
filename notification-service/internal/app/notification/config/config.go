package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки приложения Notification Service
// Включает конфигурацию для PostgreSQL (БД clinic-service), Kafka и SMTP
type Config struct {
	Database     DatabaseConfig
	Kafka        KafkaConfig
	SMTP         SMTPConfig
	AuthService  AuthServiceConfig
	CronSchedule CronScheduleConfig
	ServerPort   string
	JWTSecret    string // Общий секрет для сервисного токена к auth-service
	LogLevel     string
}

// DatabaseConfig - настройки подключения к PostgreSQL Clinic Service
// Используется только для чтения подтвержденных приемов под напоминания
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string // Имя базы данных (clinic_service)
	SSLMode  string
}

// KafkaConfig - настройки Kafka для подписки на письма
// Слушает топик notification.emails от auth-service и clinic-service
type KafkaConfig struct {
	Brokers  []string
	Topic    string // Топик с письмами (notification.emails)
	GroupID  string // ID группы потребителей
	MinBytes int
	MaxBytes int
}

// SMTPConfig - настройки SMTP сервера для отправки писем
type SMTPConfig struct {
	Host     string
	Port     string
	From     string // Адрес отправителя
	Username string // Пустой username отключает SMTP auth (локальный relay)
	Password string
}

// AuthServiceConfig - настройки клиента auth-service
// Нужен для получения email пациента при отправке напоминаний
type AuthServiceConfig struct {
	URL string
}

// CronScheduleConfig - настройки расписания cron задач
type CronScheduleConfig struct {
	Reminders string // Расписание рассылки напоминаний (по умолчанию каждый день в 9:00)
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	jwtSecret := getEnv("JWT_SECRET", "")
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5433"), // Порт PostgreSQL для Clinic Service
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "clinic_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_EMAIL_TOPIC", "notification.emails"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "notification-service-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnv("SMTP_PORT", "1025"), // Порт mailhog из docker-compose
			From:     getEnv("SMTP_FROM", "noreply@dentalcare.example"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		AuthService: AuthServiceConfig{
			URL: getEnv("AUTH_SERVICE_URL", "http://localhost:8080"),
		},
		CronSchedule: CronScheduleConfig{
			Reminders: getEnv("CRON_REMINDERS", "0 9 * * *"),
		},
		ServerPort: getEnv("SERVER_PORT", "8082"),
		JWTSecret:  jwtSecret,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес SMTP сервера в формате host:port
func (c *SMTPConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
