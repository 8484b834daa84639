package domain

import (
	"fmt"
	"unicode/utf8"
)

const (
	// MinTextLength is the minimum task text length in characters
	MinTextLength = 1
	// MaxTextLength is the maximum task text length in characters
	MaxTextLength = 100
)

// ValidationError reports an input field that failed validation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the create payload
func (c CreateTask) Validate() error {
	return validateText(c.Text)
}

// Validate checks the fields present in the update payload
func (u UpdateTask) Validate() error {
	if u.Text == nil {
		return nil
	}
	return validateText(*u.Text)
}

func validateText(text string) error {
	n := utf8.RuneCountInString(text)
	if n < MinTextLength {
		return &ValidationError{Field: "text", Message: "Can not be empty"}
	}
	if n > MaxTextLength {
		return &ValidationError{Field: "text", Message: "Over text length"}
	}
	return nil
}
