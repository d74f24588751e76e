package stock

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Kind classifies a failed read and picks its HTTP status.
type Kind int

const (
	KindUnexpected Kind = iota
	KindConfigurationMissing
	KindInvalidSelector
	KindAuthentication
	KindExternalService
)

func (k Kind) String() string {
	switch k {
	case KindConfigurationMissing:
		return "configuration_missing"
	case KindInvalidSelector:
		return "invalid_selector"
	case KindAuthentication:
		return "authentication_failure"
	case KindExternalService:
		return "external_service_failure"
	default:
		return "unexpected_failure"
	}
}

// Error is returned by Service.Read for every failure. Its message is meant
// for API clients.
type Error struct {
	Kind Kind
	// Setting is the environment variable that is missing.
	Setting string
	// Value is the rejected selector.
	Value string
	// Timeout reports that an external call ran out of time.
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfigurationMissing:
		return fmt.Sprintf("Falta la variable de entorno %s.", e.Setting)
	case KindInvalidSelector:
		return fmt.Sprintf("ID de hoja inválido: '%s'. Use '1', '2' o '3'.", e.Value)
	case KindAuthentication:
		return fmt.Sprintf("Error de autenticación con Google: %v", e.Err)
	case KindExternalService:
		if e.Timeout {
			return fmt.Sprintf("Tiempo de espera agotado consultando Google Sheets: %v", e.Err)
		}
		return fmt.Sprintf("Error de Google API: %v", e.Err)
	default:
		return fmt.Sprintf("Error inesperado: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func missingSetting(setting string) *Error {
	return &Error{Kind: KindConfigurationMissing, Setting: setting}
}

func invalidSelector(value string) *Error {
	return &Error{Kind: KindInvalidSelector, Value: value}
}

func authenticationFailure(err error) *Error {
	return &Error{Kind: KindAuthentication, Err: err}
}

// classifyFetchError maps an error from a range read to Authentication or
// ExternalService.
func classifyFetchError(err error) *Error {
	var stockErr *Error
	if errors.As(err, &stockErr) {
		return stockErr
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return authenticationFailure(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return authenticationFailure(err)
	}

	return &Error{
		Kind:    KindExternalService,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}

// AsError returns err as an *Error, wrapping anything unknown as Unexpected.
func AsError(err error) *Error {
	var stockErr *Error
	if errors.As(err, &stockErr) {
		return stockErr
	}
	return &Error{Kind: KindUnexpected, Err: err}
}
