// Package validator registers the request validation rules shared by all handlers.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"github.com/jwalitptl/hospital-api/internal/model"
)

const DefaultRegion = "US"

// Register installs the custom rules on gin's binding engine.
func Register(phoneRegion string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v, phoneRegion)
}

// RegisterOn installs the custom rules on v and reports field names by their JSON key.
func RegisterOn(v *validator.Validate, phoneRegion string) error {
	if phoneRegion == "" {
		phoneRegion = DefaultRegion
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"phone": PhoneRule(phoneRegion),
		"appointmentstatus": func(fl validator.FieldLevel) bool {
			return model.AppointmentStatus(fl.Field().String()).Valid()
		},
		"invoicestatus": func(fl validator.FieldLevel) bool {
			return model.InvoiceStatus(fl.Field().String()).Valid()
		},
		"userrole": func(fl validator.FieldLevel) bool {
			_, ok := model.ParseUserRole(fl.Field().String())
			return ok
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s rule: %w", tag, err)
		}
	}
	return nil
}

// PhoneRule accepts numbers that parse as valid for region, or any region when
// written in international form.
func PhoneRule(region string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String(), region)
	}
}

func ValidPhone(raw, region string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
