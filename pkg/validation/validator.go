// Package validation applies declarative per-field rules to a request payload.
//
// A Schema is an ordered list of rules. Rules for one field run in order and
// stop at the first failure, so each field reports at most one message.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "user-auth-service/pkg/errors"
)

// Payload is the flattened request input: body fields and path parameters.
type Payload map[string]string

// Get returns the value of field, or "" when absent.
func (p Payload) Get(field string) string {
	return p[field]
}

// Has reports whether field was supplied at all.
func (p Payload) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Rule is one constraint on a field. Tag is a go-playground/validator tag
// evaluated against the field value. Prepare, when set, rewrites the value
// before the tag runs; Sanitize rewrites it after the rule passes.
type Rule struct {
	Field    string
	Tag      string
	Message  string
	Prepare  func(string) string
	Sanitize func(string) string
}

// Schema is the ordered rule list for one route.
type Schema []Rule

// Validator evaluates schemas.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks payload against schema. On success it returns a copy of the
// payload with sanitizers applied. On failure it returns a KindValidation
// error whose Fields hold the first failing message per field.
func (v *Validator) Validate(schema Schema, payload Payload) (Payload, error) {
	out := make(Payload, len(payload))
	for k, val := range payload {
		out[k] = val
	}

	failed := make(map[string]string)
	for _, rule := range schema {
		if _, done := failed[rule.Field]; done {
			continue
		}

		value := out.Get(rule.Field)
		if rule.Prepare != nil {
			value = rule.Prepare(value)
		}
		if rule.Tag != "" {
			if err := v.validate.Var(value, rule.Tag); err != nil {
				failed[rule.Field] = rule.message()
				continue
			}
		}
		if rule.Sanitize != nil && out.Has(rule.Field) {
			out[rule.Field] = rule.Sanitize(value)
		}
	}

	if len(failed) > 0 {
		return nil, apperrors.NewValidationError(failed)
	}
	return out, nil
}

func (r Rule) message() string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s is invalid", r.Field)
}
