package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dentalcare/notification-service/internal/app/notification/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "notification-test-secret-key-long-enough"

func TestAuthClient_GetUser_Success(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/internal/users/ivan", r.URL.Path)

		json.NewEncoder(w).Encode(entity.UserInfo{
			Username: "ivan",
			Email:    "ivan@example.com",
			Role:     "PATIENT",
		})
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, testSecret)

	user, err := client.GetUser(context.Background(), "ivan")

	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", user.Email)

	// Запрос подписан сервисным токеном
	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))

	token, err := jwt.ParseWithClaims(
		strings.TrimPrefix(gotAuth, "Bearer "),
		&serviceTokenClaims{},
		func(t *jwt.Token) (interface{}, error) { return []byte(testSecret), nil },
	)
	require.NoError(t, err)
	claims := token.Claims.(*serviceTokenClaims)
	assert.Equal(t, "notification-service", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestAuthClient_GetUser_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, testSecret)

	user, err := client.GetUser(context.Background(), "ghost")

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "not found")
}

func TestAuthClient_GetUser_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, testSecret)

	user, err := client.GetUser(context.Background(), "ivan")

	assert.Error(t, err)
	assert.Nil(t, user)
}
