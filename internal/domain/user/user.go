package user

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RoleFor derives the role granted at registration time.
func RoleFor(email, adminEmail string) string {
	if adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), adminEmail) {
		return RoleAdmin
	}
	return RoleUser
}
