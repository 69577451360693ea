package services

import (
	"sort"
	"strings"

	"github.com/tasdonena/admin-console/pkg/apiclient"
)

const (
	DefaultLoginError    = "Invalid credentials."
	DefaultRegisterError = "There was an error creating your account. Please try again."
	DefaultVerifyError   = "Verification failed."
	DefaultResendError   = "Failed to resend code. Please try again."
	DefaultForgotError   = "An error occurred. Please try again later."
	DefaultResetError    = "Invalid or expired reset link. Please request a new one."
)

// LoginErrorMessage prefers the credential field error so that account
// status is not revealed when a validation message exists.
func LoginErrorMessage(err error) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if m := apiErr.FieldError("email"); m != "" {
			return m
		}
		if apiErr.Data.Message != "" {
			return apiErr.Data.Message
		}
		if apiErr.Data.Reason != "" {
			return "Rejected: " + apiErr.Data.Reason
		}
	}
	return apiclient.MessageOr(err, DefaultLoginError)
}

// BusinessStatus returns the account status attached to a refusal.
func BusinessStatus(err error) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		return apiErr.Data.Status
	}
	return ""
}

func RegisterErrorMessage(err error) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if apiErr.Data.Message != "" {
			return apiErr.Data.Message
		}
		if flat := flattenFieldErrors(apiErr.Data.Errors); flat != "" {
			return flat
		}
	}
	return apiclient.MessageOr(err, DefaultRegisterError)
}

func VerifyErrorMessage(err error) string {
	return firstOf(err, DefaultVerifyError, "otp", "email")
}

func ResendErrorMessage(err error) string {
	return apiclient.MessageOr(err, DefaultResendError)
}

func ForgotErrorMessage(err error) string {
	return apiclient.MessageOr(err, DefaultForgotError)
}

func ResetErrorMessage(err error) string {
	return firstOf(err, DefaultResetError, "token", "password")
}

// firstOf returns the server message, then the first message of each field
// in order, then the transport or fallback text.
func firstOf(err error, fallback string, fields ...string) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if apiErr.Data.Message != "" {
			return apiErr.Data.Message
		}
		for _, f := range fields {
			if m := apiErr.FieldError(f); m != "" {
				return m
			}
		}
	}
	return apiclient.MessageOr(err, fallback)
}

func flattenFieldErrors(fe apiclient.FieldErrors) string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, fe[k]...)
	}
	return strings.Join(parts, " ")
}
