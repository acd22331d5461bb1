package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator - обертка над go-playground/validator с нашими тегами
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	once.Do(func() {
		validate = validator.New()

		// В ошибках используем имена из json тегов
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("nopassword", validateNoPassword)
	})

	return &Validator{v: validate}
}

// Validate возвращает *entity.ValidationError по первому невалидному полю
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return entity.NewValidationError("%s", err.Error())
	}

	e := errs[0]
	return entity.NewValidationError("%s %s", e.Field(), formatValidationError(e))
}

// пароль не должен содержать слово "password" в любом регистре
func validateNoPassword(fl validator.FieldLevel) bool {
	return !strings.Contains(strings.ToLower(fl.Field().String()), "password")
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "gte":
		return "must be a positive number"
	case "nopassword":
		return `cannot contain "password"`
	default:
		return "is invalid"
	}
}
