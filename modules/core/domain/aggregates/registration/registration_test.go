package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterDTO {
	return RegisterDTO{
		Name:                 " Maria Santos ",
		Email:                "maria@deped.gov.ph",
		Password:             "abcdefg1",
		PasswordConfirmation: "abcdefg1",
		EmployeeID:           "EMP-001",
		Position:             "Teacher I",
		Division:             "Cebu",
		SchoolName:           "Cebu National HS",
	}
}

func TestRegisterDTO_Valid(t *testing.T) {
	t.Parallel()

	d := validRegister()
	errs, ok := d.Ok()
	require.True(t, ok, errs)
	assert.Equal(t, "Maria Santos", d.Name)
}

func TestRegisterDTO_Messages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*RegisterDTO)
		field  string
		want   string
	}{
		{"blank name", func(d *RegisterDTO) { d.Name = "   " }, "name", "Please enter your full name"},
		{"no email", func(d *RegisterDTO) { d.Email = "" }, "email", "Please enter your email address"},
		{"bad email", func(d *RegisterDTO) { d.Email = "maria@deped" }, "email", "Please enter a valid email address"},
		{"no employee id", func(d *RegisterDTO) { d.EmployeeID = "" }, "employee_id", "Please enter your employee ID"},
		{"no position", func(d *RegisterDTO) { d.Position = "" }, "position", "Please enter your position"},
		{"no division", func(d *RegisterDTO) { d.Division = "" }, "division", "Please enter your division"},
		{"no school", func(d *RegisterDTO) { d.SchoolName = "" }, "school_name", "Please enter your school name"},
		{"weak password", func(d *RegisterDTO) { d.Password, d.PasswordConfirmation = "abcdefgh", "abcdefgh" }, "password", MsgPasswordPolicy},
		{"mismatch", func(d *RegisterDTO) { d.PasswordConfirmation = "abcdefg2" }, "password_confirmation", "Passwords don't match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := validRegister()
			tc.mutate(&d)
			errs, ok := d.Ok()
			require.False(t, ok)
			assert.Equal(t, tc.want, errs[tc.field])
		})
	}
}

func TestRegisterDTO_FirstErrorFollowsFormOrder(t *testing.T) {
	t.Parallel()

	d := validRegister()
	d.SchoolName = ""
	d.Email = ""
	d.Password = ""
	errs, ok := d.Ok()
	require.False(t, ok)
	assert.Equal(t, "Please enter your email address", d.FirstError(errs))
}

func TestLoginDTO(t *testing.T) {
	t.Parallel()

	d := LoginDTO{Email: "  ", Password: "x"}
	errs, ok := d.Ok()
	require.False(t, ok)
	assert.Equal(t, MsgFillAllFields, errs["email"])

	d = LoginDTO{Email: "a@b.co", Password: "x"}
	_, ok = d.Ok()
	assert.True(t, ok)
}

func TestVerifyEmailDTO(t *testing.T) {
	t.Parallel()

	for _, otp := range []string{"12345", "1234567", "12a456", ""} {
		d := VerifyEmailDTO{Email: "a@b.co", OTP: otp}
		errs, ok := d.Ok()
		require.False(t, ok, otp)
		assert.Equal(t, MsgOTPIncomplete, errs["otp"])
	}
	d := VerifyEmailDTO{Email: "a@b.co", OTP: "123456"}
	_, ok := d.Ok()
	assert.True(t, ok)
}

func TestForgotPasswordDTO(t *testing.T) {
	t.Parallel()

	d := ForgotPasswordDTO{}
	errs, _ := d.Ok()
	assert.Equal(t, MsgEmailRequired, errs["email"])

	d = ForgotPasswordDTO{Email: "nope"}
	errs, _ = d.Ok()
	assert.Equal(t, MsgInvalidEmail, errs["email"])

	d = ForgotPasswordDTO{Email: " maria@deped.gov.ph "}
	_, ok := d.Ok()
	assert.True(t, ok)
	assert.Equal(t, "maria@deped.gov.ph", d.Email)
}

func TestResetPasswordDTO_Precedence(t *testing.T) {
	t.Parallel()

	d := ResetPasswordDTO{Email: "a@b.co", Password: "short", PasswordConfirmation: "other"}
	errs, ok := d.Ok()
	require.False(t, ok)
	assert.Equal(t, MsgInvalidLink, d.FirstError(errs))

	d = ResetPasswordDTO{Email: "a@b.co", Token: "t", Password: "abcdefg1"}
	errs, _ = d.Ok()
	assert.Equal(t, MsgResetFillFields, d.FirstError(errs))

	d = ResetPasswordDTO{Email: "a@b.co", Token: "t", Password: "short", PasswordConfirmation: "other"}
	errs, _ = d.Ok()
	assert.Equal(t, MsgResetMismatch, d.FirstError(errs))

	d = ResetPasswordDTO{Email: "a@b.co", Token: "t", Password: "abcdefgh", PasswordConfirmation: "abcdefgh"}
	errs, _ = d.Ok()
	assert.Equal(t, MsgPasswordPolicy, d.FirstError(errs))

	d = ResetPasswordDTO{Email: "a@b.co", Token: "t", Password: "abcdefg1", PasswordConfirmation: "abcdefg1"}
	_, ok = d.Ok()
	assert.True(t, ok)
}
