package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError so the delivery layer can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to the HTTP status the router responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrInvalidCredentials = New(KindUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
	ErrInvalidToken       = New(KindUnauthorized, "INVALID_TOKEN", "invalid or expired token", nil)
	ErrUnauthorized       = New(KindUnauthorized, "UNAUTHORIZED", "unauthorized access", nil)
	ErrEmailNotVerified   = New(KindForbidden, "EMAIL_NOT_VERIFIED", "email address is not verified", nil)

	ErrUserNotFound         = New(KindNotFound, "USER_NOT_FOUND", "user not found", nil)
	ErrUserAlreadyExists    = New(KindConflict, "USER_EXISTS", "user with this email or username already exists", nil)
	ErrEmailAlreadyVerified = New(KindBadRequest, "EMAIL_ALREADY_VERIFIED", "email address is already verified", nil)
	ErrPasswordReused       = New(KindBadRequest, "PASSWORD_REUSED", "new password must differ from the current password", nil)
	ErrInvalidRole          = New(KindBadRequest, "INVALID_ROLE", "invalid role", nil)
	ErrMissingProjectID     = New(KindBadRequest, "INVALID_PROJECT_ID", "invalid project id", nil)
	ErrProjectNotFound      = New(KindNotFound, "PROJECT_NOT_FOUND", "project not found", nil)
	ErrNotProjectMember     = New(KindForbidden, "NOT_A_MEMBER", "you are not a member of this project", nil)
	ErrInsufficientRole     = New(KindForbidden, "INSUFFICIENT_ROLE", "you do not have permission for this action", nil)
	ErrMemberAlreadyExists  = New(KindConflict, "MEMBER_EXISTS", "user is already a member of this project", nil)
	ErrMembershipNotFound   = New(KindNotFound, "MEMBER_NOT_FOUND", "project member not found", nil)
	ErrAssigneeNotMember    = New(KindBadRequest, "ASSIGNEE_NOT_MEMBER", "assigned user is not a project member", nil)
	ErrTaskNotFound         = New(KindNotFound, "TASK_NOT_FOUND", "task not found", nil)
	ErrSubTaskNotFound      = New(KindNotFound, "SUBTASK_NOT_FOUND", "subtask not found", nil)
	ErrNoteNotFound         = New(KindNotFound, "NOTE_NOT_FOUND", "note not found in this project", nil)
	ErrNothingToUpdate      = New(KindBadRequest, "NOTHING_TO_UPDATE", "at least one field is required to update", nil)
	ErrInvalidTaskStatus    = New(KindBadRequest, "INVALID_STATUS", "invalid task status", nil)
)

// AppError is the typed failure every use case returns to the delivery layer.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status of the error's kind.
func (e *AppError) Status() int {
	return e.Kind.HTTPStatus()
}

func New(kind Kind, code, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewAppError(code, message string, err error) *AppError {
	return New(KindBadRequest, code, message, err)
}

// KindOf reports the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
