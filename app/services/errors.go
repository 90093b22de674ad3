package services

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCategoryExists     = errors.New("category already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTotalMismatch      = errors.New("order total does not match the cart")
	ErrOutOfStock         = errors.New("insufficient stock")
)

// ValidationError is a rejected input value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
