package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки приложения
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Kafka       KafkaConfig
	AuthService AuthServiceConfig
	App         AppConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// MongoConfig - настройки MongoDB для медицинских карт
type MongoConfig struct {
	URI    string
	DBName string
}

// RedisConfig - настройки Redis для кэша прейскуранта.
// TokenDB - БД auth-service с blacklist отозванных access токенов.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TokenDB  int
	CacheTTL time.Duration
}

// JWTConfig - секрет общий с auth-service, токены проверяются локально
type JWTConfig struct {
	Secret string
}

// KafkaConfig - настройки Kafka producer
type KafkaConfig struct {
	Brokers          []string
	AppointmentTopic string
	EmailTopic       string
}

// AuthServiceConfig - адрес auth-service для справочника пользователей
type AuthServiceConfig struct {
	URL string
}

// AppConfig - прочие настройки приложения
type AppConfig struct {
	LogLevel string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be set and at least 32 characters long")
	}

	cacheTTL, err := time.ParseDuration(getEnv("SERVICES_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVICES_CACHE_TTL: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8081"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "clinic_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			DBName: getEnv("MONGO_DB", "clinic"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 1),
			TokenDB:  getEnvInt("REDIS_TOKEN_DB", 0),
			CacheTTL: cacheTTL,
		},
		JWT: JWTConfig{
			Secret: secret,
		},
		Kafka: KafkaConfig{
			Brokers:          strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			AppointmentTopic: getEnv("KAFKA_APPOINTMENT_TOPIC", "appointment.events"),
			EmailTopic:       getEnv("KAFKA_EMAIL_TOPIC", "notification.emails"),
		},
		AuthService: AuthServiceConfig{
			URL: getEnv("AUTH_SERVICE_URL", "http://localhost:8080"),
		},
		App: AppConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
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
