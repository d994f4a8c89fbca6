package session

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationError turns struct validation failures into the single message
// the user sees. Missing fields come first, then password length, then the
// confirmation, then the email format.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return types.ValidationError("%s", err.Error())
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return types.ValidationError("Please fill in all fields")
		}
	}

	for _, tag := range []string{"min", "eqfield", "email"} {
		for _, fe := range fieldErrs {
			if fe.Tag() == tag {
				return fieldError(fe)
			}
		}
	}
	return fieldError(fieldErrs[0])
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "email":
		return types.ValidationError("Please enter a valid email address")
	case "min":
		if fe.Field() == "Password" {
			return types.ValidationError("Password must be at least 6 characters long")
		}
		return types.ValidationError("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "eqfield":
		return types.ValidationError("Passwords do not match")
	default:
		return types.ValidationError("%s is invalid", fe.Field())
	}
}

func validateLogin(in *types.LoginInput) error {
	in.Email = strings.TrimSpace(in.Email)
	return validationError(validate.Struct(in))
}

func validateRegister(in *types.RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	return validationError(validate.Struct(in))
}

func validateProfile(in *types.ProfileUpdate) error {
	if in.Username == nil && in.Email == nil && in.FullName == nil {
		return types.ValidationError("Nothing to update")
	}
	for _, f := range []*string{in.Username, in.Email, in.FullName} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return types.ValidationError("Please fill in all fields")
		}
	}
	return validationError(validate.Struct(in))
}
