package profile

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterStructValidation(validateAgeWindow, Preferences{})
	})
	return validate
}

func validateAgeWindow(sl validator.StructLevel) {
	prefs := sl.Current().Interface().(Preferences)
	if prefs.MinAge != nil && prefs.MaxAge != nil && *prefs.MinAge > *prefs.MaxAge {
		sl.ReportError(prefs.MaxAge, "MaxAge", "maxAge", "gtefield", "MinAge")
	}
}

// Validate checks field domains of a stored record. It does not require the
// profile to be complete; use IsComplete for that.
func Validate(p *Profile) error {
	if p == nil {
		return errors.New("profile is required")
	}

	err := structValidator().Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate profile: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid profile %s: %s", p.ID, strings.Join(problems, "; "))
}
