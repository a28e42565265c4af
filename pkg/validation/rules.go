package validation

import (
	"fmt"
	"strings"
)

// Required fails when the field is absent or empty.
func Required(field, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("%s is required", field)
	}
	return Rule{Field: field, Tag: "required", Message: message}
}

// Length bounds the character count of the field, inclusive on both ends.
// An absent field has length zero.
func Length(field string, min, max int, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("%s must be between %d and %d characters", field, min, max)
	}
	return Rule{
		Field:   field,
		Tag:     fmt.Sprintf("min=%d,max=%d", min, max),
		Message: message,
	}
}

// Email checks address syntax, ignoring surrounding whitespace, and
// normalizes the stored value.
func Email(field, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("%s must be a valid email", field)
	}
	return Rule{
		Field:    field,
		Tag:      "required,email",
		Message:  message,
		Prepare:  strings.TrimSpace,
		Sanitize: NormalizeEmail,
	}
}

// Numeric accepts only unsigned decimal digits, used for path ids.
func Numeric(field, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("%s must be a number", field)
	}
	return Rule{Field: field, Tag: "required,number", Message: message}
}
