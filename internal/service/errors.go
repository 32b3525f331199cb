package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")
	ErrUserInactive        = errors.New("user is inactive")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrPermissionDenied is returned when the caller's role or ownership does
	// not allow the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRegistrationNotPending is returned when a completion attempt targets
	// an account whose status is not pending.
	ErrRegistrationNotPending = errors.New("registration is not pending")

	// ErrAttachmentTooLarge is returned when an uploaded file exceeds the
	// configured size limit.
	ErrAttachmentTooLarge = errors.New("attachment exceeds maximum upload size")
)
