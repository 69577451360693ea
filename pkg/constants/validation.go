package constants

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	PasswordMinLength = 8
	DateLayout        = "2006-01-02"
	DeleteConfirmWord = "DELETE"
)

var (
	Validate   = validator.New(validator.WithRequiredStructEnabled())
	Translator ut.Translator

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
	letter       = regexp.MustCompile(`[A-Za-z]`)
	digit        = regexp.MustCompile(`[0-9]`)
)

func init() {
	locale := en.New()
	uni := ut.New(locale, locale)
	Translator, _ = uni.GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(Validate, Translator); err != nil {
		panic(err)
	}

	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("password_policy", func(fl validator.FieldLevel) bool {
		return PasswordPolicyOK(fl.Field().String())
	})
	mustRegister("loose_email", func(fl validator.FieldLevel) bool {
		return EmailFormatOK(fl.Field().String())
	})
	mustRegister("otp", func(fl validator.FieldLevel) bool {
		return otpPattern.MatchString(fl.Field().String())
	})
	mustRegister("isodate", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, err := time.Parse(DateLayout, v)
		return err == nil
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := Validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// PasswordPolicyOK requires at least eight characters, one ASCII letter and one digit.
func PasswordPolicyOK(password string) bool {
	return utf8.RuneCountInString(password) >= PasswordMinLength &&
		letter.MatchString(password) &&
		digit.MatchString(password)
}

func EmailFormatOK(email string) bool {
	return emailPattern.MatchString(email)
}

// DatePart cuts a datetime such as "2025-03-01T00:00:00.000000Z" down to its
// YYYY-MM-DD prefix. Shorter values are returned unchanged.
func DatePart(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// DeleteConfirmed gates destructive actions on the exact confirmation word.
func DeleteConfirmed(input string) bool {
	return input == DeleteConfirmWord
}
