package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrWeakPassword = errors.New("password must not be empty")

func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
