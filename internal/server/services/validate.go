package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

// Validation messages.
const (
	MsgRequired         = "Required"
	MsgNameTooShort     = "The minimum name length is 3 characters"
	MsgInvalidEmail     = "Invalid email"
	MsgPasswordTooShort = "The minimum length is 6 characters"
	MsgPasswordTooLong  = "The maximum length is 72 bytes"
	MsgInvalidValue     = "Invalid value"
)

const (
	minNameLength     = 3
	minPasswordLength = 6
	// bcrypt ignores anything past 72 bytes
	maxPasswordBytes = 72
)

// FieldError describes one failed rule. Every rule is checked, so a field
// can appear more than once.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

type fieldErrors []FieldError

func (e *fieldErrors) add(location, field, msg string) {
	*e = append(*e, FieldError{Field: field, Message: msg, Location: location})
}

// ValidateRegistration checks the body of a registration request.
func ValidateRegistration(name, email, password string) []FieldError {
	var errs fieldErrors

	if name == "" {
		errs.add("body", "name", MsgRequired)
	}
	if utf8.RuneCountInString(name) < minNameLength {
		errs.add("body", "name", MsgNameTooShort)
	}

	if email == "" {
		errs.add("body", "email", MsgRequired)
	}
	if !IsEmail(email) {
		errs.add("body", "email", MsgInvalidEmail)
	}

	if password == "" {
		errs.add("body", "password", MsgRequired)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		errs.add("body", "password", MsgPasswordTooShort)
	}
	if len(password) > maxPasswordBytes {
		errs.add("body", "password", MsgPasswordTooLong)
	}

	return errs
}

// ValidateSignin only requires both fields to be present; anything else is
// decided by the credential check so no hint leaks.
func ValidateSignin(email, password string) []FieldError {
	var errs fieldErrors

	if email == "" {
		errs.add("body", "email", MsgRequired)
	}
	if password == "" {
		errs.add("body", "password", MsgRequired)
	}

	return errs
}

// ValidateListOrder checks the created query parameter of the user list.
func ValidateListOrder(created string) []FieldError {
	var errs fieldErrors

	if created == "" {
		errs.add("query", "created", MsgRequired)
	}
	if created != users.OrderAsc && created != users.OrderDesc {
		errs.add("query", "created", MsgInvalidValue)
	}

	return errs
}

// IsEmail accepts a bare address with a dotted domain, e.g. a@x.com.
// Display names and angle brackets are rejected.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}

	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
