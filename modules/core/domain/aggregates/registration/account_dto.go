package registration

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tasdonena/admin-console/pkg/serrors"
)

const (
	MsgFillAllFields   = "Please fill in all fields"
	MsgOTPIncomplete   = "Please enter the complete 6-digit code."
	MsgEmailRequired   = "Please enter your email address."
	MsgInvalidLink     = "This password reset link is invalid or has expired. Please request a new one."
	MsgResetFillFields = "Please fill in all fields."
	MsgResetMismatch   = "Please make sure both passwords are the same."
)

type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (d *LoginDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Email = strings.TrimSpace(d.Email)
	errs := serrors.FromStruct(d, func(fe validator.FieldError) string {
		return MsgFillAllFields
	})
	return errs, len(errs) == 0
}

type VerifyEmailDTO struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"otp"`
}

func (d *VerifyEmailDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Email = strings.TrimSpace(d.Email)
	d.OTP = strings.TrimSpace(d.OTP)
	errs := serrors.FromStruct(d, func(fe validator.FieldError) string {
		if fe.Field() == "otp" {
			return MsgOTPIncomplete
		}
		return MsgEmailRequired
	})
	return errs, len(errs) == 0
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,loose_email"`
}

func (d *ForgotPasswordDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Email = strings.TrimSpace(d.Email)
	errs := serrors.FromStruct(d, func(fe validator.FieldError) string {
		if fe.Tag() == "required" {
			return MsgEmailRequired
		}
		return MsgInvalidEmail
	})
	return errs, len(errs) == 0
}

type ResetPasswordDTO struct {
	Email                string `json:"email" validate:"required"`
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required,password_policy"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (d *ResetPasswordDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Email = strings.TrimSpace(d.Email)
	errs := serrors.FromStruct(d, func(fe validator.FieldError) string {
		switch {
		case fe.Field() == "email" || fe.Field() == "token":
			return MsgInvalidLink
		case fe.Tag() == "required":
			return MsgResetFillFields
		case fe.Tag() == "eqfield":
			return MsgResetMismatch
		case fe.Tag() == "password_policy":
			return MsgPasswordPolicy
		}
		return ""
	})
	return errs, len(errs) == 0
}

// FirstError orders the checks as the reset form does: link, then missing
// fields, then mismatch, then policy.
func (d *ResetPasswordDTO) FirstError(errs serrors.ValidationErrors) string {
	for _, want := range []string{MsgInvalidLink, MsgResetFillFields, MsgResetMismatch, MsgPasswordPolicy} {
		for _, msg := range errs {
			if msg == want {
				return msg
			}
		}
	}
	return errs.First(nil)
}
