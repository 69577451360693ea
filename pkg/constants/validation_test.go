package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordPolicyOK(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"abcdefg1":  true,
		"abcdefgh":  false,
		"12345678":  false,
		"abc1":      false,
		"Passw0rd!": true,
		"":          false,
	}
	for in, want := range cases {
		assert.Equal(t, want, PasswordPolicyOK(in), in)
	}
}

func TestEmailFormatOK(t *testing.T) {
	t.Parallel()

	assert.True(t, EmailFormatOK("juan@deped.gov.ph"))
	assert.False(t, EmailFormatOK("juan@deped"))
	assert.False(t, EmailFormatOK("juan deped@x.ph"))
}

func TestDeleteConfirmed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "delete", "DELETE ", " DELETE", "Delete", "DEL"} {
		assert.False(t, DeleteConfirmed(in), in)
	}
	assert.True(t, DeleteConfirmed("DELETE"))
}

func TestDatePart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2025-03-01", DatePart("2025-03-01T00:00:00.000000Z"))
	assert.Equal(t, "2025-03-01", DatePart("2025-03-01 08:30:00"))
	assert.Equal(t, "2025-03-01", DatePart("2025-03-01"))
	assert.Equal(t, "", DatePart(""))
	assert.Equal(t, "31/01", DatePart("31/01"))
}
