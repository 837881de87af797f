// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var (
	// ErrInvalidLogin indicates that the login failed. It deliberately does not reveal why: a wrong password, an
	// unknown credential identifier, mismatching identities or context, and tampered messages look the same.
	ErrInvalidLogin = ErrCodeInvalidLogin.New("")

	// ErrInvalidState indicates that a state object has already been consumed or is unusable.
	ErrInvalidState = ErrCodeInvalidState.New("")

	// ErrSerialization indicates that an encoding could not be decoded into a valid value.
	ErrSerialization = ErrCodeSerialization.New("")

	// ErrSize indicates that an encoding has an unexpected length for the suite.
	ErrSize = ErrCodeSize.New("")

	// ErrUnknownSuite indicates that the suite tag is not recognized or has been compiled out.
	ErrUnknownSuite = ErrCodeUnknownSuite.New("")

	// ErrReflectedValue indicates that the peer reflected one of our own values back to us.
	ErrReflectedValue = ErrCodeReflectedValue.New("")

	// ErrInvalidInput indicates that a caller-supplied argument is invalid.
	ErrInvalidInput = ErrCodeInvalidInput.New("")

	// ErrLibrary indicates an internal failure of a cryptographic primitive.
	ErrLibrary = ErrCodeLibrary.New("")

	// ErrInvalidGroupElement indicates that an encoded group element is invalid or the identity element.
	ErrInvalidGroupElement = ErrCodeSerialization.New("invalid group element")
)

// ErrorCode represents the type of error in the OPAQUE protocol. It is used to categorize errors and provide
// a consistent way to handle error conditions.
type ErrorCode byte //nolint:errname // This is an error code, not an error type.

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeInvalidLogin represents a failed login.
	ErrCodeInvalidLogin

	// ErrCodeInvalidState represents the reuse of a consumed state.
	ErrCodeInvalidState

	// ErrCodeSerialization represents an invalid encoding.
	ErrCodeSerialization

	// ErrCodeSize represents an encoding of unexpected length.
	ErrCodeSize

	// ErrCodeUnknownSuite represents an unsupported suite tag.
	ErrCodeUnknownSuite

	// ErrCodeReflectedValue represents a value reflected by the peer.
	ErrCodeReflectedValue

	// ErrCodeInvalidInput represents an invalid argument.
	ErrCodeInvalidInput

	// ErrCodeLibrary represents a primitive failure.
	ErrCodeLibrary
)

// New creates a new Error with the given message and errors.
func (c ErrorCode) New(message string, errs ...error) *Error {
	if message == "" {
		message = strings.ReplaceAll(c.String(), "_", " ")
	}

	return &Error{
		Code:    c,
		Message: message,
		Err:     errors.Join(errs...),
	}
}

// String returns the string representation of the ErrorCode. If the code is not recognized, it returns "unknown_error".
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidLogin:
		return "invalid_login_error"
	case ErrCodeInvalidState:
		return "invalid_state_error"
	case ErrCodeSerialization:
		return "serialization_error"
	case ErrCodeSize:
		return "size_error"
	case ErrCodeUnknownSuite:
		return "unknown_suite_error"
	case ErrCodeReflectedValue:
		return "reflected_value_error"
	case ErrCodeInvalidInput:
		return "invalid_input_error"
	case ErrCodeLibrary:
		return "library_error"
	default:
		return "unknown_error"
	}
}

// Error implements the error interface for the ErrorCode type. It returns a string representation of the error code.
func (c ErrorCode) Error() string {
	return c.String()
}

// Is implements the errors.Is method for the ErrorCode type.
// It allows checking if the error is of a specific ErrorCode.
func (c ErrorCode) Is(target error) bool {
	var errCode ErrorCode
	if errors.As(target, &errCode) {
		return byte(c) == byte(errCode)
	}

	var opaqueErr *Error
	if errors.As(target, &opaqueErr) {
		return byte(c) == byte(opaqueErr.Code)
	}

	return false
}

// As implements the errors.As method for the Error type. It allows type assertion to specific error types.
func (c ErrorCode) As(target any) bool {
	switch t := target.(type) {
	case ErrorCode:
		return true
	case *ErrorCode:
		*t = c
		return true
	default:
		return false
	}
}

// Error represents an error in the OPAQUE protocol.
type Error struct {
	Err     error
	Message string
	Code    ErrorCode
}

// Error implements the error interface for the Error type. By convention, we return only the concise form of the
// current error, without the cause. The cause can be retrieved with the Unwrap() method.
func (e *Error) Error() string { return e.Message }

// Unwrap implements the errors.Unwrap method for the Error type. It allows retrieving the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Join wraps the provided error to the current error.
func (e *Error) Join(errs ...error) error {
	return errors.Join(e, errors.Join(errs...))
}

// LogValue implements the slog.LogValuer interface for the Error type.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("code_name", e.Code.String()),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// Format implements the fmt.Formatter interface for the Error type. It allows formatting the error in different ways.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			e.formatV(f)
			return
		}

		fallthrough
	case 's':
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // safe to ignore // human-readable
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error()) //nolint:errcheck // safe to ignore // quoted string
	default:
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // safe to ignore // safe default
	}
}

// Is implements the errors.Is method for the Error type. It allows checking if the error is of a specific ErrorCode.
func (e *Error) Is(target error) bool {
	return e.Code.Is(target) && strings.EqualFold(e.Message, target.Error())
}

// As implements the errors.As method for the Error type. It allows type assertion to specific error types.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = e.Code
		return true
	case **Error:
		*t = e
		return true
	default:
		return false
	}
}

func printV(f fmt.State, err error, depth int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", depth)
	_, _ = fmt.Fprintf(f, "\n%s↳ %v", prefix, err) //nolint:errcheck // safe to ignore

	// Check for errors that can unwrap multiple errors
	var multiUnwrapper interface{ Unwrap() []error }
	if errors.As(err, &multiUnwrapper) {
		for _, child := range multiUnwrapper.Unwrap() {
			printV(f, child, depth+1)
		}

		return
	}

	// Check for errors that can unwrap a single error
	var singleUnwrapper interface{ Unwrap() error }
	if errors.As(err, &singleUnwrapper) {
		printV(f, singleUnwrapper.Unwrap(), depth+1)
	}
}

func (e *Error) formatV(f fmt.State) {
	// header with code
	_, _ = fmt.Fprintf(f, "code=%d(%s)", e.Code, e.Code.String()) //nolint:errcheck // safe to ignore
	if e.Message != "" {
		_, _ = fmt.Fprintf(f, " message=%q", e.Message) //nolint:errcheck // safe to ignore
	}

	// unwrap error chain
	if e.Err != nil {
		printV(f, e.Err, 0)
	}
}
