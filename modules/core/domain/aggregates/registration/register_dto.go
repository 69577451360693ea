// Package registration holds the payloads of the public account flows and
// their client-side checks.
package registration

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tasdonena/admin-console/pkg/serrors"
)

const (
	MsgPasswordPolicy = "Password must be at least 8 characters and include a letter and a number."
	MsgInvalidEmail   = "Please enter a valid email address"
)

type RegisterDTO struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,loose_email"`
	Password             string `json:"password" validate:"required,password_policy"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	EmployeeID           string `json:"employee_id" validate:"required"`
	Position             string `json:"position" validate:"required"`
	Division             string `json:"division" validate:"required"`
	SchoolName           string `json:"school_name" validate:"required"`
}

// Field order of the registration form, used to pick the blocking message.
var registerOrder = []string{
	"name", "email", "employee_id", "position", "division", "school_name",
	"password", "password_confirmation",
}

var registerRequired = map[string]string{
	"name":        "Please enter your full name",
	"email":       "Please enter your email address",
	"employee_id": "Please enter your employee ID",
	"position":    "Please enter your position",
	"division":    "Please enter your division",
	"school_name": "Please enter your school name",
	"password":    "Please enter a password",
}

func (d *RegisterDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.EmployeeID = strings.TrimSpace(d.EmployeeID)
	d.Position = strings.TrimSpace(d.Position)
	d.Division = strings.TrimSpace(d.Division)
	d.SchoolName = strings.TrimSpace(d.SchoolName)
}

func (d *RegisterDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.FromStruct(d, func(fe validator.FieldError) string {
		switch fe.Tag() {
		case "required":
			return registerRequired[fe.Field()]
		case "loose_email":
			return MsgInvalidEmail
		case "password_policy":
			return MsgPasswordPolicy
		case "eqfield":
			return "Passwords don't match"
		}
		return ""
	})
	return errs, len(errs) == 0
}

// FirstError is the message shown in the blocking validation alert.
func (d *RegisterDTO) FirstError(errs serrors.ValidationErrors) string {
	return errs.First(registerOrder)
}
