package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed input: a non-positive quantity, a missing
// required field, an unparsable date or enum value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a referenced id that does not exist
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ReferencedEntityError reports a delete blocked by a foreign reference
type ReferencedEntityError struct {
	Entity       string
	ID           string
	ReferencedBy string
}

func (e *ReferencedEntityError) Error() string {
	return fmt.Sprintf("%s %s is still referenced by %s and cannot be deleted", e.Entity, e.ID, e.ReferencedBy)
}

// StatusCode maps the error taxonomy to an HTTP status. Anything outside the
// taxonomy is treated as a server failure.
func StatusCode(err error) int {
	var ve *ValidationError
	var nfe *NotFoundError
	var ree *ReferencedEntityError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nfe):
		return http.StatusNotFound
	case errors.As(err, &ree):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
