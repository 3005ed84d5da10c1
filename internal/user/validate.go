package user

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	phoneRe    = regexp.MustCompile(`^\+?[0-9]+$`)

	validate = newValidator()
)

// ValidationError liste les champs rejetés, par nom JSON.
type ValidationError struct {
	Fields map[string]string
	errs   []error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid user: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return append([]error{ErrInvalidUser}, e.errs...)
}

// ProfileUpdate : seuls les champs non nil sont modifiés.
type ProfileUpdate struct {
	Gender      *Gender      `json:"gender" validate:"omitnil,gender"`
	Contributor *Contributor `json:"contributor" validate:"omitnil,contributor"`
	PhoneNumber *string      `json:"phone_number" validate:"omitnil,max=12,phone"`
	DOB         *time.Time   `json:"dob" validate:"omitnil,notfuture"`
	ClearDOB    bool         `json:"clear_dob"`
	ProfilePic  *string      `json:"profile_pic" validate:"omitnil,max=100"`
}

// AccountUpdate : seuls les champs non nil sont modifiés.
type AccountUpdate struct {
	FirstName *string `json:"first_name" validate:"omitnil,max=150"`
	LastName  *string `json:"last_name" validate:"omitnil,max=150"`
	Email     *string `json:"email" validate:"omitnil,max=254,blank_or_email"`
}

// Validate vérifie les contraintes de champ : longueurs, choix, formats.
// L'unicité reste vérifiée par la base.
func (u *User) Validate() error {
	return validationError(validate.Struct(u))
}

func (p ProfileUpdate) Validate() error {
	return validationError(validate.Struct(p))
}

func (a AccountUpdate) Validate() error {
	return validationError(validate.Struct(a))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return Gender(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("contributor", func(fl validator.FieldLevel) bool {
		return Contributor(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	// Chaîne vide acceptée : c'est la valeur par défaut du profil.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || phoneRe.MatchString(s)
	})
	_ = v.RegisterValidation("blank_or_email", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || v.Var(s, "email") == nil
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return !ok || !t.After(time.Now())
	})

	return v
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fe.Field()] = fieldMessage(fe)
		switch fe.Tag() {
		case "gender":
			ve.errs = append(ve.errs, ErrInvalidGender)
		case "contributor":
			ve.errs = append(ve.errs, ErrInvalidContributor)
		}
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "email", "blank_or_email":
		return "enter a valid email address"
	case "username":
		return "enter a valid username, letters, numbers and @/./+/-/_ only"
	case "phone":
		return "enter a valid phone number"
	case "gender", "contributor":
		return fmt.Sprintf("%q is not a valid choice", fmt.Sprint(fe.Value()))
	case "notfuture":
		return "date cannot be in the future"
	default:
		return "invalid value"
	}
}
