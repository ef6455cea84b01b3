package ripple

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes core engine errors.
type ErrorCode string

const (
	// ErrCodeAlreadySubscribed indicates the subscriber is already present
	// in the publisher's subscriber set.
	ErrCodeAlreadySubscribed ErrorCode = "ALREADY_SUBSCRIBED"

	// ErrCodeNotSubscribed indicates the subscriber is not present in the
	// publisher's subscriber set (anymore).
	ErrCodeNotSubscribed ErrorCode = "NOT_SUBSCRIBED"

	// ErrCodeCallbackRegistered indicates a second activation callback
	// registration on the same publisher.
	ErrCodeCallbackRegistered ErrorCode = "CALLBACK_REGISTERED"
)

// Error represents a non-fatal engine error surfaced to the immediate
// caller. The publisher's internal state is unchanged when one is
// returned.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsAlreadySubscribed reports whether err is a subscription conflict on
// subscribe. Uses errors.As to handle wrapped errors.
func IsAlreadySubscribed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeAlreadySubscribed
}

// IsNotSubscribed reports whether err is a subscription conflict on
// unsubscribe or dispose. Uses errors.As to handle wrapped errors.
func IsNotSubscribed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotSubscribed
}

// IsCallbackRegistered reports whether err is an activation callback
// conflict. Uses errors.As to handle wrapped errors.
func IsCallbackRegistered(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCallbackRegistered
}

func errAlreadySubscribed() error {
	return &Error{Code: ErrCodeAlreadySubscribed, Message: "subscriber already registered"}
}

func errNotSubscribed() error {
	return &Error{Code: ErrCodeNotSubscribed, Message: "subscriber is not registered"}
}

func errCallbackRegistered() error {
	return &Error{Code: ErrCodeCallbackRegistered, Message: "an activation callback is already registered"}
}
