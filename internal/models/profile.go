package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleCoach   = "coach"
)

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleCoach
}

// HomePath is the dashboard a role lands on after sign-in.
func HomePath(role string) string {
	if role == RoleCoach {
		return "/coach"
	}
	return "/student"
}

type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	ID        uuid.UUID  `json:"id"`
	FullName  *string    `json:"full_name"`
	AvatarURL *string    `json:"avatar_url"`
	Role      string     `json:"role"`
	Email     string     `json:"email"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Identity is the authenticated principal behind a request.
type Identity struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	Email     string    `json:"email,omitempty"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

func (i Identity) IsCoach() bool {
	return i.Role == RoleCoach
}

func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}
