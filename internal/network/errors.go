package network

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed server request.
type ErrorCode string

const (
	// CodeNetwork covers transport failures and non-success HTTP statuses.
	CodeNetwork ErrorCode = "network"
	// CodeParse covers responses that arrived but could not be decoded.
	CodeParse ErrorCode = "parse"
)

// Error describes a failed request to the model server.
type Error struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func networkError(message string, cause error) *Error {
	return &Error{Code: CodeNetwork, Message: message, Cause: cause}
}

func statusError(message string, status int) *Error {
	return &Error{Code: CodeNetwork, Message: message, HTTPStatus: status}
}

func parseError(message string, cause error) *Error {
	return &Error{Code: CodeParse, Message: message, Cause: cause}
}

// IsCode reports whether err is a server request Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var reqErr *Error
	return errors.As(err, &reqErr) && reqErr.Code == code
}
