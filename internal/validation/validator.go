// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is the sentinel every validation failure unwraps to.
// Components test for it with errors.Is to classify caller mistakes.
var ErrInvalidInput = errors.New("invalid input")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// topicPattern accepts the topic labels used for article tags and reader
// preferences: letters, digits, spaces, '&' and '-'.
var topicPattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} &\-]*$`)

// FieldError describes a single failed field.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// RequestValidationError collects every failed field of one struct.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the individual field failures.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Error joins the field messages.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.errors))
	for _, fe := range ve.errors {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, "; ")
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match.
func (ve *RequestValidationError) Unwrap() error {
	return ErrInvalidInput
}

// GetValidator returns the singleton validator, registering the custom
// "topic" and "docid" tags on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		_ = validate.RegisterValidation("topic", func(fl validator.FieldLevel) bool {
			return topicPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("docid", func(fl validator.FieldLevel) bool {
			return IsDocumentID(fl.Field().String())
		})
	})
	return validate
}

// IsDocumentID reports whether id can be used as a document key: non-blank,
// no surrounding whitespace, no path or key separators.
func IsDocumentID(id string) bool {
	if id == "" || strings.TrimSpace(id) != id || len(id) > 128 {
		return false
	}
	return !strings.ContainsAny(id, "/:\x00")
}

// ValidateStruct validates s, returning nil or the collected field failures.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

// Validate is ValidateStruct returning a plain error, so a nil result is a
// nil interface and can be returned directly.
func Validate(s interface{}) error {
	if verr := ValidateStruct(s); verr != nil {
		return verr
	}
	return nil
}

// Var validates a single value against a tag expression.
func Var(field string, value interface{}, tag string) error {
	if err := GetValidator().Var(value, tag); err != nil {
		return fmt.Errorf("%w: %s failed %q", ErrInvalidInput, field, tag)
	}
	return nil
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"topic":    "%s must be a topic name (letters, digits, spaces, '&', '-')",
	"docid":    "%s must be a document id without '/' or ':'",
	"dive":     "%s contains an invalid element",
	"unique":   "%s must not contain duplicates",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	unit := ""
	switch fe.Kind().String() {
	case "string":
		unit = " characters"
	case "slice", "map":
		unit = " items"
	}

	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
