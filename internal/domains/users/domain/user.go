package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Role separates shoppers from back-office staff.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	ErrInvalidEmail  = errors.New("email must be valid")
	ErrWeakPassword  = errors.New("password must contain at least 6 characters")
	ErrEmptyFullName = errors.New("full name is required")
	ErrInvalidPhone  = errors.New("phone number must contain 10-15 digits and may start with +")
	ErrShortAddress  = errors.New("shipping address must contain at least 10 characters")
	ErrInvalidRole   = errors.New("role is invalid")
)

var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

// User is an account holder. PasswordHash is a bcrypt hash and is never
// exposed through the transport layer.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	FullName         string
	PhoneNumber      string
	ShippingAddress  string
	Role             Role
	IsVerified       bool
	VerificationCode string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUser validates profile fields and constructs an unverified user. The
// caller supplies the already-hashed password.
func NewUser(email, passwordHash, fullName, phoneNumber, shippingAddress string, role Role) (*User, error) {
	user := &User{PasswordHash: passwordHash}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetProfile(fullName, phoneNumber, shippingAddress); err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	return user, nil
}

// SetEmail trims, lowercases, and validates the email.
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetProfile validates and applies the profile fields.
func (u *User) SetProfile(fullName, phoneNumber, shippingAddress string) error {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) < 3 {
		return ErrEmptyFullName
	}
	phoneNumber = strings.TrimSpace(phoneNumber)
	if !phonePattern.MatchString(phoneNumber) {
		return ErrInvalidPhone
	}
	shippingAddress = strings.TrimSpace(shippingAddress)
	if len(shippingAddress) < 10 {
		return ErrShortAddress
	}
	u.FullName = fullName
	u.PhoneNumber = phoneNumber
	u.ShippingAddress = shippingAddress
	return nil
}

// SetRole accepts only known roles and defaults to USER.
func (u *User) SetRole(role Role) error {
	if role == "" {
		role = RoleUser
	}
	if role != RoleUser && role != RoleAdmin {
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}

// MarkVerified flips the account to verified and clears the one-time code.
func (u *User) MarkVerified() {
	u.IsVerified = true
	u.VerificationCode = ""
}

// ValidatePassword enforces the minimum length on a plaintext password
// before hashing.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}
