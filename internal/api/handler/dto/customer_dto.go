package dto

import (
	"customer-service/internal/pkg/apperrors"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomerDTO is the wire shape of a customer. Field order fixes the JSON
// property order: id, type, name, age, email, salary.
type CustomerDTO struct {
	ID     *int64   `json:"id" example:"1"`
	Type   string   `json:"type" validate:"required" example:"retail"`
	Name   string   `json:"name" validate:"required" example:"Jane Doe"`
	Age    *int32   `json:"age" validate:"required,gt=0" example:"30"`
	Email  string   `json:"email" validate:"required,email" example:"jane@x.com"`
	Salary *float64 `json:"salary" validate:"required,gt=0" example:"50000"`
}

// StatusResponse is the body of every non-list, non-validation response.
type StatusResponse struct {
	Status string `json:"status" example:"Update Successfully"`
}

// ValidationErrorResponse maps a field name to the message for its first
// failed constraint.
type ValidationErrorResponse map[string]string

var fieldMessages = map[string]string{
	"type.required":   "Type cannot be empty!",
	"name.required":   "Name cannot be empty!",
	"age.required":    "Age cannot be empty",
	"age.gt":          "Age must be positive",
	"email.required":  "Email cannot be empty",
	"email.email":     "Invalid email address",
	"salary.required": "Salary is required",
	"salary.gt":       "Salary must be positive",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field constraint and reports all violations at once.
// The returned error is a *apperrors.FieldErrors or nil.
func (d *CustomerDTO) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrs := apperrors.NewFieldErrors()
	for _, fe := range validationErrs {
		fieldErrs.Add(fe.Field(), messageFor(fe))
	}
	if fieldErrs.Empty() {
		return nil
	}
	return fieldErrs
}

// HasValidID reports whether the DTO names an existing-record id.
func (d *CustomerDTO) HasValidID() bool {
	return d.ID != nil && *d.ID > 0
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}
