package models

import (
	"errors"
	"sort"
	"strings"
)

// FieldErrors reports validation failures keyed by input field. Nothing is
// persisted when a handler receives one.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

func IsFieldErrors(err error) bool {
	var fe FieldErrors
	return errors.As(err, &fe)
}

// ConflictError is the single non-field error class: double bookings,
// duplicate reviews, duplicate affiliations, duplicate emails.
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string {
	return e.Message
}

func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}
