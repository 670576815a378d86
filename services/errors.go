package services

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	ErrKindNotAuthenticated    ErrorKind = "NOT_AUTHENTICATED"
	ErrKindValidation          ErrorKind = "VALIDATION"
	ErrKindStageMismatch       ErrorKind = "STAGE_MISMATCH"
	ErrKindDuplicateAssignment ErrorKind = "DUPLICATE_ASSIGNMENT"
	ErrKindMissingFiles        ErrorKind = "MISSING_FILES"
	ErrKindUpstream            ErrorKind = "UPSTREAM"
	ErrKindNotFound            ErrorKind = "NOT_FOUND"
)

// WorkflowError mang loại lỗi nghiệp vụ để controller map sang HTTP status
// và UI hiển thị đúng thông điệp cho từng trường hợp.
type WorkflowError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *WorkflowError) Error() string {
	return e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func NewWorkflowError(kind ErrorKind, message string) *WorkflowError {
	return &WorkflowError{Kind: kind, Message: message}
}

// WrapUpstream giữ nguyên chi tiết lỗi từ entity store / identity provider
func WrapUpstream(err error, message string) *WorkflowError {
	return &WorkflowError{Kind: ErrKindUpstream, Message: message, Err: err}
}

// HTTPStatus map loại lỗi sang status code
func (e *WorkflowError) HTTPStatus() int {
	switch e.Kind {
	case ErrKindNotAuthenticated:
		return http.StatusUnauthorized
	case ErrKindValidation, ErrKindStageMismatch, ErrKindMissingFiles:
		return http.StatusBadRequest
	case ErrKindDuplicateAssignment:
		return http.StatusConflict
	case ErrKindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AsWorkflowError trả về *WorkflowError nếu err thuộc loại này
func AsWorkflowError(err error) (*WorkflowError, bool) {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}
