package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom rules used in binding tags and makes
// error fields report their JSON names.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// NewValidator returns a standalone validator that reads binding tags, for
// checking requests outside gin.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	RegisterValidators(v)
	return v
}

// FieldErrors maps each failing field to a readable message. It returns nil
// for errors that did not come from the validator.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out[field] = describe(fe)
	}
	return out
}

// SummarizeFieldErrors joins field messages into one stable line.
func SummarizeFieldErrors(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fields[k]
	}
	return strings.Join(parts, "; ")
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "notblank":
		return name + " must not be blank"
	case "email":
		return name + " must be a valid email address"
	case "len":
		return fmt.Sprintf("%s must be exactly %s digits", name, fe.Param())
	case "number":
		return name + " must contain digits only"
	case "min":
		return name + " must be at least " + fe.Param() + unit(fe)
	case "max":
		return name + " must be at most " + fe.Param() + unit(fe)
	case "gte":
		return name + " must be " + fe.Param() + " or more"
	case "eqfield":
		return name + " must match " + lowerFirst(fe.Param())
	case "oneof":
		return name + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fmt.Sprintf("%s failed the %s check", name, fe.Tag())
}

func unit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " item(s)"
	}
	return ""
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
