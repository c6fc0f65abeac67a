package session

import (
	"strings"

	"github.com/atinyakov/DevHub/internal/models"
)

// ValidateRegistration checks the fields that can be verified without the
// backend. It returns nil or a *ValidationError.
func ValidateRegistration(req models.RegisterRequest) error {
	fields := map[string][]string{}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = append(fields["username"], "Username is required.")
	}
	if req.Password == "" {
		fields["password"] = append(fields["password"], "Password is required.")
	}
	if req.Password != req.ConfirmPassword {
		fields["confirm_password"] = append(fields["confirm_password"], "Passwords do not match.")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
