package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError
	ErrNotFound = errors.New("not found")

	// ErrUnexpected is matched by every UnexpectedError
	ErrUnexpected = errors.New("unexpected repository error")
)

// NotFoundError is returned when an operation targets a task that doesn't exist
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("NotFound, id is %d", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnexpectedError wraps a storage fault that is not a missing record
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("Unexpected Error: %s: [%v]", e.Op, e.Err)
}

// Is makes errors.Is(err, ErrUnexpected) hold
func (e *UnexpectedError) Is(target error) bool {
	return target == ErrUnexpected
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// NotFound returns a NotFoundError for id
func NotFound(id int64) error {
	return &NotFoundError{ID: id}
}

// Unexpected wraps err as an UnexpectedError. A nil err stays nil and an
// error that is already classified is returned unchanged.
func Unexpected(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnexpected) {
		return err
	}
	return &UnexpectedError{Op: op, Err: err}
}

// IsNotFound reports whether err signals a missing task
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
