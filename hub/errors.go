package hub

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes topic errors.
type ErrorCode string

const (
	// ErrCodeAlreadyBound indicates a bind attempt on a topic that
	// already has a subject.
	ErrCodeAlreadyBound ErrorCode = "ALREADY_BOUND"

	// ErrCodeNotBound indicates a direct emit on a topic without a
	// subject.
	ErrCodeNotBound ErrorCode = "NOT_BOUND"

	// ErrCodeWaitTimeout indicates an assignment wait that exceeded its
	// deadline.
	ErrCodeWaitTimeout ErrorCode = "WAIT_TIMEOUT"
)

// TopicError represents a topic-level error. The topic's binding state is
// unchanged when one is returned.
type TopicError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Topic is the normalized topic name.
	Topic string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *TopicError) Error() string {
	return fmt.Sprintf("%s: topic %q: %s", e.Code, e.Topic, e.Message)
}

// IsAlreadyBound reports whether err is a binding conflict. Uses
// errors.As to handle wrapped errors.
func IsAlreadyBound(err error) bool {
	var e *TopicError
	return errors.As(err, &e) && e.Code == ErrCodeAlreadyBound
}

// IsNotBound reports whether err is an unbound access error. Uses
// errors.As to handle wrapped errors.
func IsNotBound(err error) bool {
	var e *TopicError
	return errors.As(err, &e) && e.Code == ErrCodeNotBound
}

// IsWaitTimeout reports whether err is an assignment-wait timeout. Uses
// errors.As to handle wrapped errors.
func IsWaitTimeout(err error) bool {
	var e *TopicError
	return errors.As(err, &e) && e.Code == ErrCodeWaitTimeout
}
