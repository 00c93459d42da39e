package domain

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrCardLimitReached      = errors.New("card limit reached")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrServiceNotFound       = errors.New("service not found")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrValidation            = errors.New("validation failed")
	ErrInvalidToken          = errors.New("invalid token")
)
