package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrCaptchaFailed       = errors.New("captcha verification failed")
	ErrUserExists          = errors.New("user with this username already exists")
	ErrEmailExists         = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrTooManyRequests     = errors.New("too many requests, try again later")
	ErrInvalidRole         = errors.New("unknown role")
	ErrForbidden           = errors.New("access forbidden")
	ErrValidation          = errors.New("validation error")
	ErrInternal            = errors.New("internal error")
)
