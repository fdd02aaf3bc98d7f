package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorInvalidKey           = "PAYWARE_INVALID_KEY"
	ErrorMissingAuthorization = "PAYWARE_MISSING_AUTHORIZATION"
	ErrorUnsupportedRole      = "PAYWARE_UNSUPPORTED_ROLE"
	ErrorSigningFailed        = "PAYWARE_SIGNING_FAILED"
	ErrorBadInput             = "PAYWARE_BAD_INPUT"
	ErrorExternalFailure      = "PAYWARE_EXTERNAL_FAILURE"
	ErrorInternal             = "PAYWARE_INTERNAL_ERROR"
)

// InvalidKeyError reports key material that is empty or not decodable.
func InvalidKeyError(message string, metadata map[string]any) *goerrors.Error {
	return newTaxonomyError(message, goerrors.CategoryBadInput, ErrorInvalidKey, metadata)
}

// MissingAuthorizationError reports a delegated call without its target or
// delegation token. Each missing field is attached as a validation field error.
func MissingAuthorizationError(message string, fields ...string) *goerrors.Error {
	fieldErrors := make([]goerrors.FieldError, 0, len(fields))
	for _, field := range fields {
		fieldErrors = append(fieldErrors, goerrors.FieldError{
			Field:   field,
			Message: "required for delegated partner authentication",
		})
	}
	return goerrors.NewValidation(message, fieldErrors...).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorMissingAuthorization).
		WithSeverity(goerrors.SeverityError)
}

func UnsupportedRoleError(role Role) *goerrors.Error {
	return newTaxonomyError(
		"core: unsupported partner role "+quoteRole(role),
		goerrors.CategoryBadInput,
		ErrorUnsupportedRole,
		map[string]any{"role": string(role)},
	)
}

// SigningError wraps a failure to produce an RS256 signature.
func SigningError(source error, message string, metadata map[string]any) *goerrors.Error {
	if source == nil {
		return newTaxonomyError(message, goerrors.CategoryOperation, ErrorSigningFailed, metadata)
	}
	err := goerrors.Wrap(source, goerrors.CategoryOperation, message).
		WithCode(http.StatusUnprocessableEntity).
		WithTextCode(ErrorSigningFailed)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func BadInputError(message string, metadata map[string]any) *goerrors.Error {
	return newTaxonomyError(message, goerrors.CategoryBadInput, ErrorBadInput, metadata)
}

func ValidationError(field string, message string) *goerrors.Error {
	return goerrors.NewValidation("core: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

func InternalError(message string) *goerrors.Error {
	return newTaxonomyError(message, goerrors.CategoryInternal, ErrorInternal, nil)
}

func IsInvalidKey(err error) bool { return hasTextCode(err, ErrorInvalidKey) }

func IsMissingAuthorization(err error) bool { return hasTextCode(err, ErrorMissingAuthorization) }

func IsUnsupportedRole(err error) bool { return hasTextCode(err, ErrorUnsupportedRole) }

func IsSigningError(err error) bool { return hasTextCode(err, ErrorSigningFailed) }

func IsBadInput(err error) bool { return hasTextCode(err, ErrorBadInput) }

// TextCode returns the PAYWARE_* text code carried by err, or "" when err is
// not a rich error.
func TextCode(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return ""
	}
	return rich.TextCode
}

func hasTextCode(err error, code string) bool {
	return err != nil && TextCode(err) == code
}

func newTaxonomyError(message string, category goerrors.Category, textCode string, metadata map[string]any) *goerrors.Error {
	err := ensureErrorEnvelope(goerrors.New(message, category).WithTextCode(textCode))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func quoteRole(role Role) string {
	return `"` + string(role) + `"`
}

func serviceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unsupported partner role"):
		return newTaxonomyError(err.Error(), goerrors.CategoryBadInput, ErrorUnsupportedRole, nil)
	case strings.Contains(msg, "delegation token"), strings.Contains(msg, "target identity"):
		return newTaxonomyError(err.Error(), goerrors.CategoryValidation, ErrorMissingAuthorization, nil)
	case strings.Contains(msg, "sign"):
		return newTaxonomyError(err.Error(), goerrors.CategoryOperation, ErrorSigningFailed, nil)
	case strings.Contains(msg, "private key"), strings.Contains(msg, "public key"), strings.Contains(msg, "key material"):
		return newTaxonomyError(err.Error(), goerrors.CategoryBadInput, ErrorInvalidKey, nil)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "unsupported"):
		return newTaxonomyError(err.Error(), goerrors.CategoryBadInput, ErrorBadInput, nil)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	if mapped == nil {
		return nil
	}
	mapped.TextCode = defaultTextCode(mapped.Category)
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = errorHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryOperation:
		return ErrorSigningFailed
	case goerrors.CategoryExternal:
		return ErrorExternalFailure
	default:
		return ErrorInternal
	}
}

func errorHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryOperation:
		return http.StatusUnprocessableEntity
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
