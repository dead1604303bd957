package models

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/justsurfingit/brightpath/internal/errors"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := NormalizeDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

// NormalizeDate parses an application date and returns it as YYYY-MM-DD.
// Plain calendar dates and RFC 3339 timestamps are accepted.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Format(dateLayout), nil
	}
	return "", errors.Validationf("invalid application date %q", s)
}

// Validate checks the input the way the application form does.
func (in ApplicationInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return validationError(err)
	}
	return nil
}

// Validate checks only the fields the patch carries.
func (p ApplicationPatch) Validate() error {
	if p.Company != nil && strings.TrimSpace(*p.Company) == "" {
		return errors.Validationf("company is required")
	}
	if p.Position != nil && strings.TrimSpace(*p.Position) == "" {
		return errors.Validationf("position is required")
	}
	if p.ApplicationDate != nil {
		if _, err := NormalizeDate(*p.ApplicationDate); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return errors.Validationf("status must be one of %s", statusList())
	}
	if p.ContactEmail != nil && *p.ContactEmail != "" {
		if err := validate.Var(*p.ContactEmail, "email"); err != nil {
			return errors.Validationf("contactEmail must be a valid email address")
		}
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Mark(errors.Wrap(err, "invalid application"), errors.ErrValidation)
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return errors.Validationf("%s is required", fe.Field())
	case "calendardate":
		return errors.Validationf("invalid application date %q", fe.Value())
	case "status":
		return errors.Validationf("status must be one of %s", statusList())
	case "email":
		return errors.Validationf("%s must be a valid email address", fe.Field())
	}
	return errors.Validationf("%s is invalid", fe.Field())
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
