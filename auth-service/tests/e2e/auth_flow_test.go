//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"dentalcare/auth-service/internal/app/auth/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// BaseURL - адрес запущенного auth-service
	// Для E2E тестов сервис должен быть запущен через docker-compose
	BaseURL = "http://localhost:8080"
)

func postJSON(t *testing.T, client *http.Client, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(BaseURL+path, "application/json", bytes.NewBuffer(data))
	require.NoError(t, err)
	return resp
}

// TestRegistrationFlow проверяет регистрацию и то, что аккаунт
// остается выключенным до подтверждения email
func TestRegistrationFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	username := fmt.Sprintf("e2e-user-%d", time.Now().UnixNano())
	email := username + "@example.com"
	password := "securepassword123"

	t.Log("Step 1: Registering new user")
	resp := postJSON(t, client, "/api/auth/register", entity.RegisterRequest{
		Username:     username,
		Email:        email,
		Password:     password,
		CaptchaToken: "e2e-captcha-token",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Registration should succeed")

	t.Log("Step 2: Login before email verification must be rejected")
	resp = postJSON(t, client, "/api/auth/login", entity.LoginRequest{
		UsernameOrEmail: username,
		Password:        password,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "Disabled account must not log in")

	t.Log("Step 3: Duplicate registration must conflict")
	resp = postJSON(t, client, "/api/auth/register", entity.RegisterRequest{
		Username:     username,
		Email:        email,
		Password:     password,
		CaptchaToken: "e2e-captcha-token",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// TestInvalidCredentials проверяет, что неизвестный пользователь и
// неверный пароль дают одинаковый ответ
func TestInvalidCredentials(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp := postJSON(t, client, "/api/auth/login", entity.LoginRequest{
		UsernameOrEmail: fmt.Sprintf("nobody-%d", time.Now().UnixNano()),
		Password:        "whatever123",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestRefreshWithBogusToken проверяет отказ по неизвестному refresh токену
func TestRefreshWithBogusToken(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp := postJSON(t, client, "/api/auth/refresh", entity.RefreshRequest{
		RefreshToken: "completely-bogus-token",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestProtectedEndpointRequiresToken проверяет защиту /me
func TestProtectedEndpointRequiresToken(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(BaseURL + "/api/auth/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestHealthCheck проверяет живость сервиса
func TestHealthCheck(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(BaseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
