package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dentalcare/pkg/logger"
)

// GoogleCaptchaVerifier проверяет reCAPTCHA токен через siteverify API.
// Любая сетевая ошибка трактуется как непройденная проверка.
type GoogleCaptchaVerifier struct {
	verifyURL  string
	secret     string
	minScore   float64
	httpClient *http.Client
}

// NewGoogleCaptchaVerifier создает новый HTTP клиент проверки captcha
func NewGoogleCaptchaVerifier(verifyURL, secret string, minScore float64) *GoogleCaptchaVerifier {
	return &GoogleCaptchaVerifier{
		verifyURL: verifyURL,
		secret:    secret,
		minScore:  minScore,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type captchaVerifyResponse struct {
	Success bool     `json:"success"`
	Score   *float64 `json:"score,omitempty"`
	Errors  []string `json:"error-codes,omitempty"`
}

// Verify выполняет POST на siteverify и проверяет результат.
// Для v3 ответов дополнительно сверяется score с порогом.
func (v *GoogleCaptchaVerifier) Verify(ctx context.Context, token string) bool {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create captcha verify request")
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("Captcha verify request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("status", resp.StatusCode).Msg("Captcha verify returned unexpected status")
		return false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read captcha verify response")
		return false
	}

	var result captchaVerifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		logger.Error().Err(err).Msg("Failed to unmarshal captcha verify response")
		return false
	}

	if !result.Success {
		logger.Debug().Strs("error_codes", result.Errors).Msg("Captcha rejected")
		return false
	}

	if result.Score != nil && *result.Score < v.minScore {
		logger.Debug().Float64("score", *result.Score).Float64("min_score", v.minScore).Msg("Captcha score below threshold")
		return false
	}

	return true
}
