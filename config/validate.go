package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding/charmap"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// latin1 accepts strings whose characters each fit in one byte, the
	// constraint the legacy digest places on its salt.
	_ = v.RegisterValidation("latin1", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if _, ok := charmap.ISO8859_1.EncodeRune(r); !ok {
				return false
			}
		}
		return true
	})
	return v
}

// Validate checks c and reports every failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, "; "))
}
