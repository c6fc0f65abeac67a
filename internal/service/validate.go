package service

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/atinyakov/DevHub/internal/models"
)

const (
	msgRequired       = "This field is required."
	msgUsernameTaken  = "A user with that username already exists."
	msgUsernameFormat = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgUsernameLength = "Ensure this field has no more than 150 characters."
	msgEmail          = "Enter a valid email address."
	msgPasswordMatch  = "Password fields didn't match."

	maxUsernameLen = 150
)

var usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// FieldErrors maps request field names to their validation messages. It is
// rendered as the 400 response body.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], " "))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func validateRegistration(req models.RegisterRequest) FieldErrors {
	fe := FieldErrors{}

	switch {
	case req.Username == "":
		fe.add("username", msgRequired)
	case utf8.RuneCountInString(req.Username) > maxUsernameLen:
		fe.add("username", msgUsernameLength)
	case !usernameRe.MatchString(req.Username):
		fe.add("username", msgUsernameFormat)
	}

	if req.Email != "" {
		if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
			fe.add("email", msgEmail)
		}
	}

	if req.Password == "" {
		fe.add("password", msgRequired)
	}
	if req.ConfirmPassword == "" {
		fe.add("confirm_password", msgRequired)
	}
	if req.Password != "" && req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		fe.add("password", msgPasswordMatch)
	}
	return fe
}
