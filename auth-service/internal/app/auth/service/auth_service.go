package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalcare/auth-service/internal/app/auth/entity"
	"dentalcare/auth-service/internal/app/auth/repository"
	"dentalcare/auth-service/internal/app/auth/util"
	"dentalcare/pkg/logger"
	"dentalcare/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	verificationTokenTTL  = 24 * time.Hour
	passwordResetTokenTTL = 30 * time.Minute

	// Срок чёрного списка, когда метазапись токена уже истекла.
	// Страховочный запас на случай рассинхронизации часов.
	blacklistFallbackTTL = 5 * time.Minute
)

// AuthService обрабатывает бизнес-логику аутентификации:
// регистрацию, подтверждение email, вход, ротацию refresh токенов
// и принудительную инвалидацию выданных токенов.
type AuthService struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
	rateLimiter repository.RateLimiterRepository
	jwtManager  *util.JWTManager
	captcha     CaptchaVerifier
	mailer      Mailer

	baseURL     string
	loginLimit  int
	loginWindow time.Duration
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	rateLimiter repository.RateLimiterRepository,
	jwtManager *util.JWTManager,
	captcha CaptchaVerifier,
	mailer Mailer,
	baseURL string,
	loginLimit int,
	loginWindow time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		rateLimiter: rateLimiter,
		jwtManager:  jwtManager,
		captcha:     captcha,
		mailer:      mailer,
		baseURL:     baseURL,
		loginLimit:  loginLimit,
		loginWindow: loginWindow,
	}
}

// Register регистрирует нового пользователя.
// Аккаунт создается выключенным до подтверждения email.
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) error {
	if !s.captcha.Verify(ctx, req.CaptchaToken) {
		return ErrCaptchaFailed
	}

	// Проверяем занятость username и email до создания
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check existing username: %w", err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return ErrEmailExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:            uuid.New(),
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		Role:          entity.RoleCustomer,
		EmailVerified: false,
		Enabled:       false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Гонка двух одновременных регистраций: уникальный индекс решает
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	token := uuid.NewString()
	if err := s.tokenRepo.SaveVerificationToken(ctx, token, user.Email, verificationTokenTTL); err != nil {
		return fmt.Errorf("failed to save verification token: %w", err)
	}

	// Письмо - best-effort: неудача не откатывает регистрацию
	link := fmt.Sprintf("%s/api/auth/verify?token=%s", s.baseURL, token)
	msg := &entity.EmailMessage{
		To:      user.Email,
		Subject: "Verify your email",
		Body:    "Click to verify your account: " + link,
		Kind:    entity.EmailKindVerification,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send verification email")
	}

	return nil
}

// VerifyEmail подтверждает email по одноразовому токену и включает аккаунт
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.tokenRepo.GetVerificationEmail(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to look up verification token: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	user.EmailVerified = true
	user.Enabled = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to enable user: %w", err)
	}

	// Токен одноразовый
	if err := s.tokenRepo.DeleteVerificationToken(ctx, token); err != nil {
		logger.Warn().Err(err).Msg("Failed to delete used verification token")
	}

	metrics.AuthEmailVerifications.Inc()
	return nil
}

// Login выполняет вход по username или email.
// Несуществующий пользователь и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.TokenPair, error) {
	allowed, err := s.rateLimiter.Allow(ctx, "login:"+req.UsernameOrEmail, s.loginLimit, s.loginWindow)
	if err != nil {
		// При недоступности Redis лимитер пропускает запросы
		logger.Warn().Err(err).Msg("Rate limiter unavailable, allowing login attempt")
	} else if !allowed {
		return nil, ErrTooManyRequests
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.Enabled {
		return nil, ErrAccountDisabled
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh обменивает refresh токен на новую пару с ротацией:
// использованный токен немедленно уничтожается, повтор невозможен.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	username, err := s.tokenRepo.GetRefreshTokenUser(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokenPair(ctx, user)
}

// Logout удаляет refresh токен. Идемпотентен: уже отсутствующий
// токен не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	metrics.AuthTokensRevoked.WithLabelValues("refresh").Inc()
	return nil
}

// RequestPasswordReset отправляет ссылку для сброса пароля.
// Не раскрывает, зарегистрирован ли email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	token := uuid.NewString()
	if err := s.tokenRepo.SavePasswordResetToken(ctx, token, user.Email, passwordResetTokenTTL); err != nil {
		return fmt.Errorf("failed to save password reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	msg := &entity.EmailMessage{
		To:      user.Email,
		Subject: "Password reset",
		Body:    "Click to reset your password: " + link,
		Kind:    entity.EmailKindPasswordReset,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send password reset email")
	}

	return nil
}

// ResetPassword устанавливает новый пароль по токену сброса и
// отзывает все ранее выданные токены пользователя.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.tokenRepo.GetPasswordResetEmail(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to look up password reset token: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	passwordHash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokenRepo.DeletePasswordResetToken(ctx, token); err != nil {
		logger.Warn().Err(err).Msg("Failed to delete used password reset token")
	}

	// Старые сессии после смены пароля недействительны
	if err := s.InvalidateUserRefreshTokens(ctx, user.Username); err != nil {
		logger.Error().Err(err).Str("username", user.Username).Msg("Failed to invalidate refresh tokens after password reset")
	}
	if err := s.InvalidateUserAccessTokens(ctx, user.Username); err != nil {
		logger.Error().Err(err).Str("username", user.Username).Msg("Failed to invalidate access tokens after password reset")
	}

	return nil
}

// InvalidateUserRefreshTokens отзывает все refresh токены пользователя.
// После вызова ни один ранее выданный refresh токен не обменивается.
func (s *AuthService) InvalidateUserRefreshTokens(ctx context.Context, username string) error {
	deleted, err := s.tokenRepo.DeleteUserRefreshTokens(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to delete user refresh tokens: %w", err)
	}
	metrics.AuthTokensRevoked.WithLabelValues("refresh").Add(float64(deleted))
	return nil
}

// InvalidateUserAccessTokens помещает отпечатки всех учтённых access
// токенов пользователя в чёрный список. Срок записи равен остатку жизни
// токена из метазаписи, поэтому список не требует ручной очистки.
func (s *AuthService) InvalidateUserAccessTokens(ctx context.Context, username string) error {
	hashes, err := s.tokenRepo.GetUserAccessTokenHashes(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get user access token hashes: %w", err)
	}

	for _, hash := range hashes {
		ttl, err := s.tokenRepo.GetAccessTokenMetaTTL(ctx, hash)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read access token meta TTL, using fallback")
			ttl = 0
		}
		if ttl <= 0 {
			ttl = blacklistFallbackTTL
		}

		if err := s.tokenRepo.BlacklistAccessToken(ctx, hash, ttl); err != nil {
			return fmt.Errorf("failed to blacklist access token: %w", err)
		}
		if err := s.tokenRepo.DeleteAccessTokenMeta(ctx, hash); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete access token meta")
		}
		metrics.AuthTokensRevoked.WithLabelValues("access").Inc()
	}

	if err := s.tokenRepo.DeleteUserAccessTokenSet(ctx, username); err != nil {
		return fmt.Errorf("failed to delete user access token set: %w", err)
	}

	return nil
}

// ValidateAccessToken проверяет access токен: сначала чёрный список
// по отпечатку, затем подпись и срок действия
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*util.JWTClaims, error) {
	blacklisted, err := s.tokenRepo.IsAccessTokenBlacklisted(ctx, util.TokenHash(token))
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if blacklisted {
		return nil, util.ErrInvalidToken
	}

	return s.jwtManager.ValidateToken(token)
}

// GetUserByUsername возвращает пользователя для /me и внутренних запросов
func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// issueTokenPair выпускает access+refresh пару и выполняет учёт:
// refresh попадает в множество пользователя, отпечаток access -
// в множество отпечатков с метазаписью на остаток жизни токена.
func (s *AuthService) issueTokenPair(ctx context.Context, user *entity.User) (*entity.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refreshTTL := s.jwtManager.GetRefreshTokenDuration()
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.Username, refreshToken, refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	hash := util.TokenHash(accessToken)
	accessTTL := s.jwtManager.GetAccessTokenDuration()
	if err := s.tokenRepo.TrackAccessToken(ctx, user.Username, hash, refreshTTL, accessTTL); err != nil {
		return nil, fmt.Errorf("failed to track access token: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}
