package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Init configures the validator behind gin's binding. Safe to call more than once.
// - Uses JSON (or form) tag names in errors.
// - Registers alias tags for the API's enums.
func Init() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		v.RegisterAlias("pwd", "min=6")
		v.RegisterAlias("user_type", "oneof=civilian shelter")
		v.RegisterAlias("report_status", "oneof=reported acknowledged vaccinated sheltered ignored")
	})
}

// ToDetails converts binding errors into a map[field]message for the error body.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return map[string]string{ute.Field: "must be a " + ute.Type.String()}
	}
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the top-level struct name from the namespace so nested
// fields read as "location.x".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + param + " is not present"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "url", "http_url":
		return "must be a valid URL"
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
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "latitude":
		return "must be a valid latitude"
	case "longitude":
		return "must be a valid longitude"
	case "pwd":
		return "min length 6"
	case "user_type":
		return "must be one of: civilian, shelter"
	case "report_status":
		return "must be one of: reported, acknowledged, vaccinated, sheltered, ignored"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
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
