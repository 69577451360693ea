package serrors

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tasdonena/admin-console/pkg/constants"
)

// ValidationErrors maps a payload field name to a single human message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// First returns the message of the first field in order that failed, falling
// back to the alphabetically first field.
func (v ValidationErrors) First(order []string) string {
	for _, field := range order {
		if msg, ok := v[field]; ok {
			return msg
		}
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return v[keys[0]]
}

// MessageFunc returns a custom message for a failed rule, or "" to use the
// translated default.
type MessageFunc func(fe validator.FieldError) string

func ProcessValidatorErrors(errs validator.ValidationErrors, messageFor MessageFunc) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg := ""
		if messageFor != nil {
			msg = messageFor(fe)
		}
		if msg == "" {
			msg = fe.Translate(constants.Translator)
		}
		out[field] = msg
	}
	return out
}

// FromStruct runs the shared validator on v and converts its failures.
func FromStruct(v any, messageFor MessageFunc) ValidationErrors {
	err := constants.Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{"_": err.Error()}
	}
	return ProcessValidatorErrors(verrs, messageFor)
}

func IsValidation(err error) bool {
	var v ValidationErrors
	return errors.As(err, &v)
}
