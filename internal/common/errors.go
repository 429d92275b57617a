package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Memorial errors
	ErrMemorialNotFound    = errors.New("memorial not found")
	ErrMemorialDeactivated = errors.New("memorial deactivated")
	ErrMemorialPrivate     = errors.New("memorial is private")
	ErrMemorialExpired     = errors.New("memorial plan expired")

	// Tribute errors
	ErrTributeNotFound = errors.New("tribute not found")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")

	// Payment errors
	ErrPaymentNotVerified    = errors.New("payment not verified")
	ErrPaymentAlreadyApplied = errors.New("payment reference already applied")
	ErrAmountMismatch        = errors.New("payment amount mismatch")
	ErrUpgradeFailed         = errors.New("plan upgrade could not be applied")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidPlan  = errors.New("invalid plan")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
