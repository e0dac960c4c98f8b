package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes; everything else surfaces as a 500.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyProcessed   = errors.New("already processed")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrDuplicatePending   = errors.New("a pending request already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReasonRequired     = errors.New("rejection reason required")
	ErrInvalidReference   = errors.New("referenced entity not found")
	ErrValidation         = errors.New("invalid payload")
)
