package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks the validate tags of obj. Failures come back as a
// KindValidation APIError whose Fields are keyed by json path.
func ValidateStruct(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		apiErr := NewValidationError(0, "validation failed", nil)
		apiErr.Err = err
		return apiErr
	}

	fields := make(map[string]string, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		name := fieldPath(fieldError)
		msg := getFieldErrorMessage(name, fieldError)
		fields[name] = msg
		messages = append(messages, msg)
	}
	return NewValidationError(0, strings.Join(messages, "; "), fields)
}

// ValidateID checks a path identifier
func ValidateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError(0, field+" is required", map[string]string{
			field: field + " is required",
		})
	}
	// dot segments would be resolved away when joined onto the base URL
	if id == "." || id == ".." {
		return NewValidationError(0, field+" is invalid", map[string]string{
			field: field + " is invalid",
		})
	}
	return nil
}

// fieldPath drops the root struct name: CreateGoodsParams.specifications[0].name -> specifications[0].name
func fieldPath(fieldError validator.FieldError) string {
	ns := fieldError.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fieldError.Field()
}

func getFieldErrorMessage(field string, fieldError validator.FieldError) string {
	param := fieldError.Param()

	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		switch fieldError.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s must contain at least %s item(s)", field, param)
		case reflect.String:
			if param == "1" {
				return fmt.Sprintf("%s is required", field)
			}
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s validation failed", field)
	}
}
