package handlers

import (
	"strings"

	"github.com/saeid-a/CoachLogBack/internal/models"
)

// Field checks that run before the service layer. Services still enforce
// the rules that matter.

func validateRegisterRequest(req registerRequest) string {
	if strings.TrimSpace(req.Email) == "" {
		return "email is required"
	}
	if req.Password == "" {
		return "password is required"
	}
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name is required"
	}
	if !models.ValidRole(req.Role) {
		return "role must be student or coach"
	}
	return ""
}

func validateLoginRequest(req loginRequest) string {
	if strings.TrimSpace(req.Email) == "" {
		return "email is required"
	}
	if req.Password == "" {
		return "password is required"
	}
	return ""
}

func validateAddStudentRequest(req addStudentRequest) string {
	if strings.TrimSpace(req.Email) == "" {
		return "email is required"
	}
	return ""
}

func validateUpdateProfileRequest(req updateProfileRequest) string {
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name must not be empty"
	}
	return ""
}
