package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"
)

// AuthClient клиент для взаимодействия с Auth Service
// Используется для проверки существования клиента при записи на прием
// и для перевода клиента в статус пациента
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthClient создает новый клиент для Auth Service
func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Таймаут для HTTP запросов
		},
	}
}

// GetUser получает информацию о пользователе из Auth Service
// Используется для проверки, что клиент существует перед созданием приема.
// authToken - JWT сотрудника, от имени которого идет запрос;
// передается на каждый вызов, клиент не хранит состояние между запросами
func (c *AuthClient) GetUser(ctx context.Context, username string, authToken string) (*entity.UserInfo, error) {
	url := fmt.Sprintf("%s/internal/users/%s", c.baseURL, username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("user not found")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var user entity.UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, nil
}

// PromoteToPatient переводит клиента в статус пациента в Auth Service
// Вызывается при записи клиента на первый прием
func (c *AuthClient) PromoteToPatient(ctx context.Context, username string, authToken string) error {
	url := fmt.Sprintf("%s/internal/users/%s/promote-patient", c.baseURL, username)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// 409 означает, что пользователь уже пациент либо не является клиентом -
	// для вызывающей стороны это не ошибка записи на прием
	if resp.StatusCode == http.StatusConflict {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
