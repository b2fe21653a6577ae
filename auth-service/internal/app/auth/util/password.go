package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost - стоимость хэширования паролей.
// bcrypt.DefaultCost (10) достаточен для нагрузки регистратуры
const bcryptCost = bcrypt.DefaultCost

// ErrPasswordTooLong возвращается для паролей длиннее лимита bcrypt (72 байта)
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword хэширует пароль пользователя через bcrypt.
// Соль генерируется внутри bcrypt, одинаковые пароли дают разные хэши
func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword сверяет пароль с хэшем из БД
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
