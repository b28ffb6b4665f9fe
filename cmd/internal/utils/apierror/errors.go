package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

// Kinds let clients react to a failure without parsing messages.
const (
	KindNotAuthenticated      = "NOT_AUTHENTICATED"
	KindOperatorMisconfigured = "OPERATOR_MISCONFIGURED"
	KindTenantInactive        = "TENANT_INACTIVE"
	KindForbidden             = "FORBIDDEN"
	KindNotFound              = "NOT_FOUND"
	KindValidation            = "VALIDATION_FAILED"
	KindConflict              = "CONFLICT"
	KindUpstream              = "UPSTREAM"
	KindRateLimited           = "RATE_LIMITED"
)

type APIError struct {
	Kind    string `json:"error,omitempty"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Kind   string              `json:"error"`
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

// Empty reports whether no problem was added yet.
func (s *StructuredError) Empty() bool {
	return len(s.Errors) == 0
}

var (
	MalformedBodyError  = newKind(http.StatusBadRequest, KindValidation, "Malformed request body")
	InternalServerError = newKind(http.StatusInternalServerError, KindUpstream, "Internal server error, please try again")
	NotFoundError       = newKind(http.StatusNotFound, KindNotFound, "Resource not found")
	InvalidIDError      = newKind(http.StatusBadRequest, KindValidation, "The provided ID is invalid")
	MalformedQueryError = newKind(http.StatusBadRequest, KindValidation, "Malformed query parameters")

	UnauthorizedError          = newKind(http.StatusUnauthorized, KindNotAuthenticated, "Authentication required")
	InvalidAuthTokenError      = newKind(http.StatusUnauthorized, KindNotAuthenticated, "Invalid or expired authentication token")
	OperatorMisconfiguredError = newKind(http.StatusUnauthorized, KindOperatorMisconfigured, "Authenticated identity has no matching user")
	TenantInactiveError        = newKind(http.StatusForbidden, KindTenantInactive, "Company account is not active")
	MissingAccessError         = newKind(http.StatusForbidden, KindForbidden, "Missing access")
	PlatformOnlyError          = newKind(http.StatusForbidden, KindForbidden, "Only platform operators can perform this action")
	TenantOnlyError            = newKind(http.StatusForbidden, KindForbidden, "This action requires a company user")
	TooManyRequestsError       = newKind(http.StatusTooManyRequests, KindRateLimited, "Too many attempts, please wait and try again")

	InvalidMediaTypeError = newKind(http.StatusUnsupportedMediaType, KindValidation, "Unsupported media type")
	MissingFileError      = newKind(http.StatusBadRequest, KindValidation, "A file is required")
	MissingFileNameError  = newKind(http.StatusBadRequest, KindValidation, "File name cannot be empty")
	InvalidCNPJError      = newKind(http.StatusBadRequest, KindValidation, "The provided CNPJ is invalid")

	/*
	 * Used for authentications
	 */
	UserAlreadyExistsError      = newKind(http.StatusConflict, KindConflict, "Email already registered")
	UserAlreadyConfirmedError   = newKind(http.StatusBadRequest, KindValidation, "User is already confirmed")
	IDPInvalidPasswordError     = newKind(http.StatusBadRequest, KindValidation, "Provided password does not meet requirements")
	IDPExistingEmailError       = newKind(http.StatusConflict, KindConflict, "Email already exists")
	IDPUserNotFoundError        = newKind(http.StatusNotFound, KindNotFound, "User not found")
	IDPUserNotConfirmedError    = newKind(http.StatusBadRequest, KindValidation, "User is not confirmed yet")
	IDPCredentialsMismatchError = newKind(http.StatusBadRequest, KindValidation, "Credentials mismatch")
	IDPConfirmCodeMismatchError = newKind(http.StatusBadRequest, KindValidation, "Confirmation code mismatch")
	IDPConfirmCodeExpiredError  = newKind(http.StatusBadRequest, KindValidation, "Confirmation code has expired")
	IDPInvalidParameterError    = newKind(http.StatusBadRequest, KindValidation, "Invalid parameters provided, the user is likely already verified")
)

func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return MalformedBodyError
	}

	problems := NewStructured(http.StatusBadRequest)
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems.Add(field, "This field is required")
		case "min":
			problems.Add(field, "Value is too short, min: "+fe.Param())
		case "max":
			problems.Add(field, "Value is too long, max: "+fe.Param())
		case "gt", "gte":
			problems.Add(field, "Value is too small, must be "+fe.Tag()+" "+fe.Param())
		case "oneof":
			problems.Add(field, "Value must be one of: "+fe.Param())
		case "strongpassword":
			problems.Add(field, "Password must have 8 to 64 characters with upper and lower case letters, a number and a special character")
		case "email":
			problems.Add(field, "Value must be a valid email address")
		case "cnpj":
			problems.Add(field, "Value must be a valid CNPJ (14 digits)")
		case "yearmonth":
			problems.Add(field, "Value must be a month in the format YYYY-MM")
		case "isodate":
			problems.Add(field, "Value must be a date in the format YYYY-MM-DD")
		case "decimalpos":
			problems.Add(field, "Value must be a non-negative decimal number")
		case "nodupes":
			problems.Add(field, "Value cannot contain duplicates")
		case "nospaces":
			problems.Add(field, "Value cannot contain whitespaces")

		default:
			problems.Add(field, "Invalid value provided")
		}
	}
	return problems
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func newKind(status int, kind, msg string) *APIError {
	return &APIError{Status: status, Kind: kind, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Kind:   KindValidation,
		Errors: make(map[string][]string),
		Status: code,
	}
}

// NewValidationError reports a single field problem detected outside of struct tags.
func NewValidationError(field, problem string) *StructuredError {
	s := NewStructured(http.StatusBadRequest)
	s.Add(field, problem)
	return s
}

func NewForbiddenError(msg string) *APIError {
	return newKind(http.StatusForbidden, KindForbidden, msg)
}

// NewRoleError is returned when the caller role is not allowed to run an operation.
func NewRoleError(operation string) *APIError {
	return newKind(http.StatusForbidden, KindForbidden, "Your role is not allowed to perform '"+operation+"'")
}

func NewConflictError(msg string, args ...any) *APIError {
	e := NewSimple(http.StatusConflict, msg, args...)
	e.Kind = KindConflict
	return e
}

func NewInvalidTransitionError(entity, from, to string) *APIError {
	return NewConflictError("Cannot move %s from %s to %s", entity, from, to)
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	e := NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
	e.Kind = KindValidation
	return e
}

func NewMissingParamError(name string) *APIError {
	e := NewSimple(http.StatusBadRequest, "Parameter '%s' is required", name)
	e.Kind = KindValidation
	return e
}

func NewInvalidFileExtError(ext string) *APIError {
	e := NewSimple(http.StatusBadRequest, "File extension '%s' is not allowed", ext)
	e.Kind = KindValidation
	return e
}

func NewInvalidFileTypeError(mime string) *APIError {
	e := NewSimple(http.StatusBadRequest, "File content type '%s' is not allowed", mime)
	e.Kind = KindValidation
	return e
}

func NewFileTooLargeError(maxBytes int64) *APIError {
	e := NewSimple(http.StatusRequestEntityTooLarge, "File is too large, max: %d bytes", maxBytes)
	e.Kind = KindValidation
	return e
}
