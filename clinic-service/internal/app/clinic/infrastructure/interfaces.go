package infrastructure

import (
	"context"

	"dentalcare/clinic-service/internal/app/clinic/entity"
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// AuthServiceClient ходит в auth-service от имени сотрудника.
// Токен передается на каждый вызов: общий клиент обслуживает
// параллельные запросы и не должен хранить чужие токены
type AuthServiceClient interface {
	GetUser(ctx context.Context, username string, authToken string) (*entity.UserInfo, error)
	PromoteToPatient(ctx context.Context, username string, authToken string) error
}
