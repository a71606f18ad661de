package domain

import (
	"net/http"
)

type ErrorCode int

const (
	ErrorCodeInternalProcess ErrorCode = iota
	ErrorCodeParameterInvalid
	ErrorCodeResourceNotFound
	ErrorCodeResourceConflict
	ErrorCodeAuthNotAuthenticated
	ErrorCodeAuthPermissionDenied
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCodeInternalProcess:      "INTERNAL_PROCESS",
	ErrorCodeParameterInvalid:     "PARAMETER_INVALID",
	ErrorCodeResourceNotFound:     "RESOURCE_NOT_FOUND",
	ErrorCodeResourceConflict:     "RESOURCE_CONFLICT",
	ErrorCodeAuthNotAuthenticated: "AUTH_NOT_AUTHENTICATED",
	ErrorCodeAuthPermissionDenied: "AUTH_PERMISSION_DENIED",
}

var errorCodeStatus = map[ErrorCode]int{
	ErrorCodeInternalProcess:      http.StatusInternalServerError,
	ErrorCodeParameterInvalid:     http.StatusBadRequest,
	ErrorCodeResourceNotFound:     http.StatusNotFound,
	ErrorCodeResourceConflict:     http.StatusConflict,
	ErrorCodeAuthNotAuthenticated: http.StatusUnauthorized,
	ErrorCodeAuthPermissionDenied: http.StatusForbidden,
}

// DomainError carries an error category across layers so handlers can map it
// to an HTTP status without inspecting storage-level error strings.
type DomainError struct {
	code      ErrorCode
	err       error
	clientMsg string
	detail    map[string]interface{}
}

type ErrorOption func(*DomainError)

// WithMsg sets the message returned to the client instead of err.Error().
func WithMsg(msg string) ErrorOption {
	return func(e *DomainError) {
		e.clientMsg = msg
	}
}

// WithDetail attaches a named detail value to the error response payload.
func WithDetail(key string, value interface{}) ErrorOption {
	return func(e *DomainError) {
		if e.detail == nil {
			e.detail = make(map[string]interface{})
		}
		e.detail[key] = value
	}
}

func NewError(code ErrorCode, err error, opts ...ErrorOption) DomainError {
	e := DomainError{code: code, err: err}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e DomainError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.Name()
}

func (e DomainError) Unwrap() error {
	return e.err
}

func (e DomainError) Code() ErrorCode {
	return e.code
}

func (e DomainError) Name() string {
	if name, ok := errorCodeNames[e.code]; ok {
		return name
	}
	return errorCodeNames[ErrorCodeInternalProcess]
}

func (e DomainError) ClientMsg() string {
	return e.clientMsg
}

func (e DomainError) Detail() map[string]interface{} {
	return e.detail
}

func (e DomainError) HTTPStatus() int {
	if status, ok := errorCodeStatus[e.code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
