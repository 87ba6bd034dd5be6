package validator

import (
	"fmt"
	"strings"

	v10 "github.com/go-playground/validator/v10"

	"github.com/clinicore/clinic-api/pkg/errors"
)

// Validator checks request payloads against their `validate` tags.
type Validator struct {
	v *v10.Validate
}

func New() *Validator {
	return &Validator{v: v10.New(v10.WithRequiredStructEnabled())}
}

// Struct validates s and converts failures into the validation error kind.
func (vl *Validator) Struct(s interface{}) error {
	err := vl.v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(v10.ValidationErrors)
	if !ok {
		return errors.NewInternal(err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.NewValidation(strings.Join(msgs, "; "))
}

func fieldMessage(fe v10.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
