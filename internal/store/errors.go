package store

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/geocoder89/billed/internal/domain/bill"
)

// Error is a store failure as shown to the user: "Erreur 404", "Erreur 500".
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Erreur %d", e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(status int, err error) *Error {
	return &Error{Status: status, Err: err}
}

// AsError maps err onto a store Error. Not found becomes 404, anything unknown 500.
func AsError(err error) error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, bill.ErrNotFound) {
		return NewError(http.StatusNotFound, err)
	}

	return NewError(http.StatusInternalServerError, err)
}

// StatusOf returns the HTTP-flavoured status carried by err, 500 if none.
func StatusOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}
