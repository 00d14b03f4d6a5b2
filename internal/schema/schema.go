package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/samandr77/microservices/portal/internal/entity"
)

var validate = validator.New()

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError describes why a payload could not be decoded into its type.
type ValidationError struct {
	Reason string       `json:"reason"`
	Fields []FieldError `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid payload: " + e.Reason
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Rule)
	}

	return fmt.Sprintf("invalid payload: %s: %s", e.Reason, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return entity.ErrInvalidArgument
}

// Result holds either a validated value or the reason it was rejected.
type Result[T any] struct {
	Value T
	Err   *ValidationError
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unpack returns the value with a plain error for call sites that propagate it.
func (r Result[T]) Unpack() (T, error) {
	if r.Err != nil {
		var zero T
		return zero, r.Err
	}

	return r.Value, nil
}

func Decode[T any](data []byte) Result[T] {
	var v T

	err := json.Unmarshal(data, &v)
	if err != nil {
		return Result[T]{Err: &ValidationError{Reason: "malformed json"}}
	}

	return Validate(v)
}

// Validate checks struct tags of an already decoded value.
func Validate[T any](v T) Result[T] {
	err := validate.Struct(v)
	if err == nil {
		return Result[T]{Value: v}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result[T]{Err: &ValidationError{Reason: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Namespace(), Rule: fe.Tag()})
	}

	return Result[T]{Err: &ValidationError{Reason: "validation failed", Fields: fields}}
}
