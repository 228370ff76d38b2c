package models

import (
	"errors"
	"fmt"
)

// Error codes used in run results and internal error handling.
const (
	ErrCodeConfig           = "CONFIG_INVALID"
	ErrCodeBrowserCrash     = "BROWSER_CRASH"
	ErrCodeNavigation       = "NAVIGATION_FAILED"
	ErrCodeLoginTimeout     = "LOGIN_TIMEOUT"
	ErrCodePostingsNotFound = "POSTINGS_NOT_FOUND"
	ErrCodeElementNotFound  = "ELEMENT_NOT_FOUND"
	ErrCodeDialogTimeout    = "DIALOG_TIMEOUT"
	ErrCodePagination       = "PAGINATION_FAILED"
)

// Error is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type Error struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// IsCode reports whether any error in err's chain is an *Error with the given
// code, including an *Error wrapped by another *Error.
func IsCode(err error, code string) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}
