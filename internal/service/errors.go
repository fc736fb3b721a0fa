package service

import (
	"errors"
	"fmt"

	"github.com/untibullet/bug-tracker/internal/github"
)

// Kind классифицирует доменную ошибку; транспортный слой выбирает по нему HTTP статус
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindExternalValidation
	KindUnavailable
)

type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// WrapError возвращает копию доменной ошибки с причиной err
func WrapError(domainError *DomainError, err error) error {
	return &DomainError{
		Kind:    domainError.Kind,
		Code:    domainError.Code,
		Message: domainError.Message,
		Err:     err,
	}
}

// withMessage возвращает копию доменной ошибки с уточненным сообщением
func withMessage(domainError *DomainError, message string, err error) error {
	return &DomainError{
		Kind:    domainError.Kind,
		Code:    domainError.Code,
		Message: message,
		Err:     err,
	}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is считает ошибки равными по коду, чтобы errors.Is работал с обернутыми копиями
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	// VALIDATION
	ErrInvalidInput = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_INPUT",
		Message: "invalid input",
	}
	ErrMissingFixCommit = &DomainError{
		Kind:    KindValidation,
		Code:    "MISSING_FIX_COMMIT",
		Message: "fixCommitUrl is required when status is FIXED.",
	}
	ErrInvalidFormat = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_FORMAT",
		Message: "invalid GitHub reference format",
	}

	// AUTHENTICATION
	ErrInvalidCredentials = &DomainError{
		Kind:    KindAuthentication,
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid credentials.",
	}
	ErrUnauthenticated = &DomainError{
		Kind:    KindAuthentication,
		Code:    "UNAUTHENTICATED",
		Message: "Invalid or expired token.",
	}

	// AUTHORIZATION
	ErrNotAMember = &DomainError{
		Kind:    KindAuthorization,
		Code:    "NOT_A_MEMBER",
		Message: "Not a member of this project.",
	}
	ErrInsufficientRole = &DomainError{
		Kind:    KindAuthorization,
		Code:    "INSUFFICIENT_PERMISSIONS",
		Message: "Insufficient permissions.",
	}

	// NOT_FOUND
	ErrProjectNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "PROJECT_NOT_FOUND",
		Message: "Project not found.",
	}
	ErrBugNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "BUG_NOT_FOUND",
		Message: "Bug not found.",
	}
	ErrUserNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "USER_NOT_FOUND",
		Message: "User not found.",
	}

	// CONFLICT
	ErrEmailTaken = &DomainError{
		Kind:    KindConflict,
		Code:    "EMAIL_TAKEN",
		Message: "Email already in use.",
	}
	ErrAlreadyMember = &DomainError{
		Kind:    KindConflict,
		Code:    "ALREADY_MEMBER",
		Message: "Already a member.",
	}
	ErrAlreadyAssigned = &DomainError{
		Kind:    KindConflict,
		Code:    "ALREADY_ASSIGNED",
		Message: "Bug already assigned to another maintainer.",
	}
	ErrAssignedElsewhere = &DomainError{
		Kind:    KindConflict,
		Code:    "ASSIGNED_ELSEWHERE",
		Message: "Bug is assigned to another maintainer.",
	}

	// EXTERNAL_VALIDATION
	ErrInvalidCommit = &DomainError{
		Kind:    KindExternalValidation,
		Code:    "INVALID_COMMIT",
		Message: "commit failed verification",
	}
	ErrProviderUnavailable = &DomainError{
		Kind:    KindUnavailable,
		Code:    "PROVIDER_UNAVAILABLE",
		Message: "source control provider is unavailable",
	}

	// INTERNAL
	ErrInternal = &DomainError{
		Kind:    KindInternal,
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	}
)

// verificationError переводит ошибку GitHub клиента в доменную ошибку.
// field называет проверяемое поле запроса, например commitUrlReported.
func verificationError(field string, err error) error {
	var providerErr *github.ProviderError
	switch {
	case errors.Is(err, github.ErrInvalidFormat):
		return withMessage(ErrInvalidFormat, fmt.Sprintf("Invalid %s: %v", field, err), err)
	case errors.As(err, &providerErr):
		return withMessage(ErrInvalidCommit, fmt.Sprintf("Invalid %s: %s", field, providerErr.Error()), err)
	case errors.Is(err, github.ErrUnavailable):
		return withMessage(ErrProviderUnavailable, fmt.Sprintf("Could not verify %s: GitHub is unavailable.", field), err)
	}
	return WrapError(ErrInternal, err)
}
