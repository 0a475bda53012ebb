// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

// Package validation wraps go-playground/validator v10 with the tags and
// messages critics needs for query parameters and configuration.
//
// Custom tags:
//   - similarity: empty or a metric name accepted by recommend.SimilarityByName
//   - mode: empty or a mode accepted by recommend.ParseMode
//
// Field names in messages come from the query, koanf or json tag, in that
// order, and nested fields are dotted ("server.port"), so a message names
// the parameter or config key the caller actually wrote.
//
//	if errs := validation.ValidateStruct(&params); errs != nil {
//	    // errs.Summary(), errs.Details()
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/critics/internal/recommend"
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// Errors is the result of a failed ValidateStruct, in struct field order.
type Errors []FieldError

// Error joins the messages with "; ".
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Summary is the message for an API error body. A single failure reads as
// its own message; several are prefixed with their field names.
func (e Errors) Summary() string {
	switch len(e) {
	case 0:
		return "Validation failed"
	case 1:
		return e[0].Message
	}
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Details is the error detail map for an API error body.
func (e Errors) Details() map[string]interface{} {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return map[string]interface{}{"field": e[0].Field, "tag": e[0].Tag, "value": e[0].Value}
	}
	return map[string]interface{}{"fields": []FieldError(e)}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator with critics' tags registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(externalName)

		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("similarity", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			if name == "" {
				return true
			}
			_, err := recommend.SimilarityByName(name)
			return err == nil
		})
		_ = validate.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
			_, err := recommend.ParseMode(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

func externalName(field reflect.StructField) string {
	for _, tag := range []string{"query", "koanf", "json"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// ValidateStruct validates s and returns nil or the failures.
func ValidateStruct(s interface{}) Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "unknown", Tag: "unknown", Message: err.Error()}}
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		field := fieldPath(fe)
		out[i] = FieldError{
			Field:   field,
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: message(fe, field),
		}
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

// messages maps a tag to a format taking the field (1) and param (2).
var messages = map[string]string{
	"required":   "%[1]s is required",
	"similarity": "%[1]s must be one of: pearson, distance",
	"mode":       "%[1]s must be one of: user, item",
	"oneof":      "%[1]s must be one of: %[2]s",
	"min":        "%[1]s must be at least %[2]s",
	"max":        "%[1]s must be at most %[2]s",
	"gt":         "%[1]s must be greater than %[2]s",
	"gte":        "%[1]s must be greater than or equal to %[2]s",
	"lt":         "%[1]s must be less than %[2]s",
	"lte":        "%[1]s must be less than or equal to %[2]s",
	"gtefield":   "%[1]s must be greater than or equal to %[2]s",
}

func message(fe validator.FieldError, field string) string {
	format, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
	msg := fmt.Sprintf(format, field, fe.Param())
	if fe.Kind() == reflect.String && (fe.Tag() == "min" || fe.Tag() == "max") {
		msg += " characters"
	}
	return msg
}
