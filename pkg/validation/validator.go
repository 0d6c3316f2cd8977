package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxIdentifierLength bounds node ids, template names and versions.
	MaxIdentifierLength = 256

	// Node ids are whitespace-free tokens of the DSL; qualified template
	// nodes contain a dot.
	nodeIDPattern  = regexp.MustCompile(`^\S+$`)
	versionPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]*$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(yamlFieldName)
	mustRegister("nodeid", func(fl validator.FieldLevel) bool {
		return ValidateNodeID(fl.Field().String()) == nil
	})
	mustRegister("version", func(fl validator.FieldLevel) bool {
		return ValidateVersion(fl.Field().String()) == nil
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// yamlFieldName reports fields by their YAML key so errors match the
// configuration file.
func yamlFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// Struct validates v against its `validate` tags and returns every failure
// joined into one error.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// ValidateNodeID checks that id can appear as a single DSL token.
func ValidateNodeID(id string) error {
	if id == "" {
		return errors.New("node id cannot be empty")
	}
	if len(id) > MaxIdentifierLength {
		return fmt.Errorf("node id '%s' exceeds maximum length of %d characters", id, MaxIdentifierLength)
	}
	if !nodeIDPattern.MatchString(id) {
		return fmt.Errorf("node id '%s' contains whitespace", id)
	}
	return nil
}

// ValidateVersion checks a dataset version such as "v1". Versions become
// path elements, so separators are rejected.
func ValidateVersion(v string) error {
	if v == "" {
		return errors.New("version cannot be empty")
	}
	if len(v) > MaxIdentifierLength {
		return fmt.Errorf("version '%s' exceeds maximum length of %d characters", v, MaxIdentifierLength)
	}
	if !versionPattern.MatchString(v) || strings.Contains(v, "..") {
		return fmt.Errorf("version '%s' is invalid (letters, digits, '_', '-' and '.' only)", v)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := fieldPath(e.Namespace())
		param := e.Param()

		switch e.Tag() {
		case "required":
			errs = append(errs, fmt.Errorf("%s: field is required", field))
		case "min", "gte":
			errs = append(errs, fmt.Errorf("%s: must be at least %s", field, param))
		case "max", "lte":
			errs = append(errs, fmt.Errorf("%s: must not exceed %s", field, param))
		case "gt":
			errs = append(errs, fmt.Errorf("%s: must be greater than %s", field, param))
		case "oneof":
			errs = append(errs, fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value()))
		case "nodeid":
			errs = append(errs, fmt.Errorf("%s: %q is not a valid node id", field, e.Value()))
		case "version":
			errs = append(errs, fmt.Errorf("%s: %q is not a valid version", field, e.Value()))
		default:
			errs = append(errs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.Join(errs...)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
