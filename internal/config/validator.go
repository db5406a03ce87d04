package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	// namespace/repo[/dir...]/secret with an optional :version suffix.
	secretPathPattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+(?:/[a-zA-Z0-9_.\-]+){2,}(?::(?:latest|[0-9]+))?$`)
	versionPattern    = regexp.MustCompile(`^(?:latest|v?\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?)$`)
)

// validatorInstance configures and returns the shared validator used for all
// module argument structs.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// Report violations against the playbook parameter name, not the
		// Go field name.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("secretpath", func(fl validator.FieldLevel) bool {
			return secretPathPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("cliversion", func(fl validator.FieldLevel) bool {
			return versionPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateArgs performs schema validation on a module argument struct and
// converts the first violation into a ConfigurationError naming the
// offending parameter.
func ValidateArgs(args any) error {
	if args == nil {
		return secrethuberrors.NewConfigurationError("args", "arguments are nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(args); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := ve.Field()
		msg := fmt.Sprintf("failed validation for '%s'", ve.Tag())
		if ve.Param() != "" {
			msg = fmt.Sprintf("failed validation for '%s=%s'", ve.Tag(), ve.Param())
		}
		return secrethuberrors.NewConfigurationError(field, msg, err)
	}

	return secrethuberrors.NewConfigurationError("args", err.Error(), err)
}
