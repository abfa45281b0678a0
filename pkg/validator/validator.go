package validator

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// В сообщениях используем имена из json тегов, если они есть
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Время в формате "HH:MM" или "H:MM AM|PM"
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := types.ToMinutes(fl.Field().String())
		return err == nil
	})

	// День недели в нумерации хранилища
	_ = validate.RegisterValidation("schema_weekday", func(fl validator.FieldLevel) bool {
		return types.IsValidSchemaWeekday(int(fl.Field().Int()))
	})

	// Строка без пробельных символов по краям и не пустая
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// FieldErrors ошибки валидации по полям
type FieldErrors map[string]string

// Error объединяет ошибки в стабильном порядке
func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

// Validate проверяет структуру и возвращает ошибки по полям или nil
func Validate(s interface{}) FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}

	errors := make(FieldErrors, len(validationErrors))
	for _, err := range validationErrors {
		field := err.Field()
		switch err.Tag() {
		case "required", "notblank":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt", "gte":
			errors[field] = "Value must be greater than " + err.Param()
		case "clock":
			errors[field] = "Invalid time, expected HH:MM or H:MM AM/PM"
		case "schema_weekday":
			errors[field] = "Day of week must be between 0 (Monday) and 6 (Sunday)"
		case "oneof":
			errors[field] = "Value must be one of: " + err.Param()
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar проверяет одиночное значение
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
