// Package validation checks caller input with go-playground/validator and
// reports failures as apperror validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"shipment-tracking-service/internal/apperror"
	"shipment-tracking-service/internal/model"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		_ = validate.RegisterValidation("shipment_status", validateShipmentStatus)

		// Use JSON tag names for error details
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

func validateShipmentStatus(fl validator.FieldLevel) bool {
	return model.Status(fl.Field().String()).IsValid()
}

// Struct validates v and returns a validation error carrying one detail per
// offending field, or nil.
func Struct(message string, v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(fmt.Sprintf("%s: %v", message, err))
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperror.ValidationFields(message, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "number", "numeric":
		return "must be a number"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "shipment_status":
		return fmt.Sprintf("%q is not one of %s", fmt.Sprint(fe.Value()), statusCodes())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func statusCodes() string {
	codes := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		codes[i] = string(s)
	}
	return strings.Join(codes, ", ")
}
