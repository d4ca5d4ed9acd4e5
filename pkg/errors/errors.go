package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork             ErrorType = "network"
	ErrorTypeRateLimit           ErrorType = "rate_limit"
	ErrorTypeNotFound            ErrorType = "not_found"
	ErrorTypeParsing             ErrorType = "parsing"
	ErrorTypeServerError         ErrorType = "server_error"
	ErrorTypeUnsupportedPlatform ErrorType = "unsupported_platform"
	ErrorTypeNotImplemented      ErrorType = "not_implemented"
	ErrorTypeCacheIO             ErrorType = "cache_io"
	ErrorTypeExhausted           ErrorType = "exhausted"
	ErrorTypeUnknown             ErrorType = "unknown"
)

// Error represents a data source error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given type
func New(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an error of the given type around a cause
func Wrap(errorType ErrorType, err error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// UnsupportedPlatform reports a platform name outside the supported set
func UnsupportedPlatform(name string) *Error {
	return New(ErrorTypeUnsupportedPlatform, "unsupported platform: %s", name)
}

// TypeOf returns the type of the first *Error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType checks whether err's chain contains an *Error of the given type
func IsType(err error, errorType ErrorType) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == errorType {
			return true
		}
		err = e.Err
	}
	return false
}

// IsFallbackable reports whether a failure should hand over to the next data source.
// Only an unsupported platform is fatal for the whole chain.
func IsFallbackable(err error) bool {
	if err == nil {
		return false
	}
	return !IsType(err, ErrorTypeUnsupportedPlatform)
}

// IsBreakerFailure reports whether an error says something about the health
// of the remote service, as opposed to the lookup key.
func IsBreakerFailure(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNotFound:
		return false
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeParsing:
		return true
	default:
		return err != nil
	}
}

// StatusCodeType maps an HTTP status code to an error type
func StatusCodeType(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode == 403, statusCode == 429:
		// the public API answers 403 once the anonymous quota is spent
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}
