package data

import "fmt"

// FieldError reports a problem with submitted data that only the database could detect,
// such as a lineup naming a player who does not exist.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
