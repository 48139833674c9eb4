package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernameRe   = regexp.MustCompile(`^[a-zA-Z_.0-9]+$`)
	passwordRe   = regexp.MustCompile(`^[a-zA-Z_.0-9&^#!]+$`)
	personNameRe = regexp.MustCompile(`^[а-яёЁА-Яa-zA-Z\-]+$`)

	initOnce sync.Once
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the profile-specific tags (username, password, personname, gender, isodate).
func Init() {
	initOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

// Register installs tag names and custom rules on v. Exposed for tests that
// build their own validator.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", matchMin(usernameRe, 4))
	_ = v.RegisterValidation("password", matchMin(passwordRe, 4))
	_ = v.RegisterValidation("personname", matchMin(personNameRe, 2))
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		g := fl.Field().String()
		return g == "m" || g == "f"
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})
}

func matchMin(re *regexp.Regexp, min int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len([]rune(s)) >= min && re.MatchString(s)
	}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "username":
		return "must be at least 4 characters of latin letters, digits, '_' or '.'"
	case "password":
		return "must be at least 4 characters of latin letters, digits or _.&^#!"
	case "personname":
		return "must be at least 2 letters (latin or cyrillic) or '-'"
	case "gender":
		return "must be 'm' or 'f'"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
