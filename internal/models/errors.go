package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
)

// NotFoundError is returned when an id does not reference a live event.
type NotFoundError struct {
	Msg string `json:"msg"`
}

func (e *NotFoundError) Error() string { return e.Msg }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotAuthorizedError is returned when the caller is not the owner of the
// event. Caller holds the rejected identity for audit logging.
type NotAuthorizedError struct {
	Msg    string `json:"msg"`
	Caller string `json:"caller"`
}

func (e *NotAuthorizedError) Error() string { return e.Msg }

func (e *NotAuthorizedError) Is(target error) bool { return target == ErrNotAuthorized }

func notFound(id uint64) error {
	return &NotFoundError{Msg: fmt.Sprintf("event with id=%d not found", id)}
}

func notAuthorized(id uint64, caller string) error {
	return &NotAuthorizedError{
		Msg:    fmt.Sprintf("you're not the owner of the event with id=%d", id),
		Caller: caller,
	}
}
