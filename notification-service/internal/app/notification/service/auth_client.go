package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dentalcare/notification-service/internal/app/notification/entity"

	"github.com/golang-jwt/jwt/v5"
)

// AuthServiceClient получает данные пользователя из auth-service
type AuthServiceClient interface {
	GetUser(ctx context.Context, username string) (*entity.UserInfo, error)
}

// serviceTokenClaims - claims сервисного токена для внутренних вызовов
type serviceTokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthClient - HTTP клиент к внутренним эндпоинтам auth-service.
// Внутренние эндпоинты требуют токен сотрудника, поэтому клиент
// подписывает короткоживущий сервисный токен общим секретом.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	jwtSecret  []byte
}

// NewAuthClient создает новый HTTP клиент для auth-service
func NewAuthClient(baseURL, jwtSecret string) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		jwtSecret: []byte(jwtSecret),
	}
}

// GetUser возвращает пользователя по username
func (c *AuthClient) GetUser(ctx context.Context, username string) (*entity.UserInfo, error) {
	url := fmt.Sprintf("%s/internal/users/%s", c.baseURL, username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.serviceToken()
	if err != nil {
		return nil, fmt.Errorf("failed to sign service token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("user %s not found", username)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var user entity.UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}

// serviceToken подписывает короткоживущий токен с ролью ADMIN
func (c *AuthClient) serviceToken() (string, error) {
	now := time.Now()
	claims := &serviceTokenClaims{
		Username: "notification-service",
		Role:     "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.jwtSecret)
}
