package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var (
	// ErrEmptyBody тело запроса отсутствует
	ErrEmptyBody = errors.New("handlers: empty request body")

	// ErrInvalidBody тело запроса не разбирается как JSON
	ErrInvalidBody = errors.New("handlers: invalid request body")

	// ErrValidation тело разобрано, но не прошло валидацию
	ErrValidation = errors.New("handlers: request validation failed")
)

// MsgInvalidRequestBody ответ клиенту, когда тело не разбирается как JSON
const MsgInvalidRequestBody = "Invalid request body"

// ValidationError ошибка валидации с описанием полей, пригодным для ответа клиенту
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidation, e.Details)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// BadRequestMessage текст ответа 400 для ошибки DecodeAndValidate
// Подробности разбора JSON остаются в логе
func BadRequestMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Details
	}
	return MsgInvalidRequestBody
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator общий экземпляр валидатора; имена полей берутся из json тегов
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// DecodeJSON разбирает тело запроса в dst
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// DecodeAndValidate разбирает тело и проверяет validate-теги
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSON(r, dst); err != nil {
		return err
	}
	if err := Validator().Struct(dst); err != nil {
		return &ValidationError{Details: describeValidation(err)}
	}
	return nil
}

// describeValidation превращает ошибки валидатора в строку вида "date is required"
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "request validation failed"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
