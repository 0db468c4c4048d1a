package models

// ValidationError indicates invalid input from a caller
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
