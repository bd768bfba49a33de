package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ukydev/fleet-crm/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// referenceChecker is implemented by records with cross-field rules the
// struct tags cannot express.
type referenceChecker interface {
	checkReferences() map[string]string
}

// Validate checks the required fields and enum domains of a record. It
// returns an *apperr.AppError listing every failing field.
func Validate(record any) error {
	fields := map[string]string{}
	if err := validate.Struct(record); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate %T: %w", record, err)
		}
		for _, fe := range verrs {
			fields[fieldPath(fe)] = describe(fe)
		}
	}
	if rc, ok := record.(referenceChecker); ok {
		for k, v := range rc.checkReferences() {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("validation failed", fields)
	}
	return nil
}

// fieldPath drops the struct name from the namespace, "Task.title" -> "title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "mongodb":
		return "must be a valid identifier"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
