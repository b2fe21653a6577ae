package service

import (
	"context"
	"errors"
	"fmt"

	"dentalcare/auth-service/internal/app/auth/entity"
	"dentalcare/auth-service/internal/app/auth/repository"
	"dentalcare/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TokenInvalidator отзывает выданные токены пользователя.
// Нужен UserService при смене роли и отключении аккаунта.
type TokenInvalidator interface {
	InvalidateUserRefreshTokens(ctx context.Context, username string) error
	InvalidateUserAccessTokens(ctx context.Context, username string) error
}

// UserService управляет учетными записями пользователей
type UserService struct {
	userRepo    repository.UserRepository
	invalidator TokenInvalidator
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, invalidator TokenInvalidator) *UserService {
	return &UserService{
		userRepo:    userRepo,
		invalidator: invalidator,
	}
}

// GetByID возвращает пользователя по идентификатору
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername возвращает пользователя по имени
func (s *UserService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// List возвращает страницу пользователей
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*entity.User, 0, len(rows))
	for i := range rows {
		users = append(users, &rows[i])
	}
	return users, nil
}

// Update изменяет профиль пользователя. Отключение аккаунта
// дополнительно отзывает все его токены.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	revoke := false
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Role != "" && req.Role != user.Role {
		if !entity.IsValidRole(req.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = req.Role
		revoke = true
	}
	if req.Enabled != nil {
		if user.Enabled && !*req.Enabled {
			revoke = true
		}
		user.Enabled = *req.Enabled
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if revoke {
		s.invalidateAll(ctx, user.Username)
	}

	return user, nil
}

// ChangeRole назначает пользователю новую роль. Уже выданные токены
// несут старую роль в claims, поэтому все они отзываются.
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, role string) (*entity.User, error) {
	if !entity.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Role == role {
		return user, nil
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	s.invalidateAll(ctx, user.Username)

	return user, nil
}

// PromoteToPatient переводит клиента в пациенты, когда клиника
// впервые записывает его на прием. Допустим только переход
// CUSTOMER -> PATIENT.
func (s *UserService) PromoteToPatient(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Role == entity.RolePatient {
		return user, nil
	}
	if user.Role != entity.RoleCustomer {
		return nil, ErrForbidden
	}

	user.Role = entity.RolePatient
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	s.invalidateAll(ctx, user.Username)

	return user, nil
}

// Delete удаляет пользователя и отзывает его токены
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidateAll(ctx, user.Username)

	return nil
}

// invalidateAll отзывает refresh и access токены; смена роли и отзыв
// не атомарны, поэтому ошибки логируются, но не откатывают изменение
func (s *UserService) invalidateAll(ctx context.Context, username string) {
	if err := s.invalidator.InvalidateUserRefreshTokens(ctx, username); err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Failed to invalidate refresh tokens")
	}
	if err := s.invalidator.InvalidateUserAccessTokens(ctx, username); err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Failed to invalidate access tokens")
	}
}
