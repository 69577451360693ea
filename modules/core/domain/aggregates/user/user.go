package user

import (
	"strconv"
	"strings"
	"unicode"
)

// User is an account as returned by the TasDoneNa API.
type User struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Role               Role    `json:"role"`
	Status             Status  `json:"status"`
	IsActive           bool    `json:"is_active"`
	EmployeeID         string  `json:"employee_id"`
	Position           string  `json:"position"`
	Division           string  `json:"division"`
	SchoolName         string  `json:"school_name"`
	RejectionReason    *string `json:"rejection_reason,omitempty"`
	DeactivationReason *string `json:"deactivation_reason,omitempty"`
	Remarks            *string `json:"remarks,omitempty"`
}

func (u User) Key() string { return strconv.Itoa(u.ID) }

func (u User) IsPending() bool { return u.Status == StatusPending }

func (u User) IsAdmin() bool { return u.Role.IsAdmin() }

// DisplayStatus collapses status and is_active into the directory label.
func (u User) DisplayStatus() string {
	switch {
	case u.Status == StatusRejected:
		return DisplayRejected
	case u.Status == StatusApproved && u.IsActive:
		return DisplayActive
	case u.Status == StatusApproved:
		return DisplayDeactivated
	case u.Status == "":
		return DisplayUnknown
	}
	return string(u.Status)
}

func (u User) RoleLabel() string { return u.Role.Label() }

func (u User) Initials() string { return Initials(u.Name) }

// Initials returns the first letters of the first and last word of name.
func Initials(name string) string {
	parts := strings.FieldsFunc(name, unicode.IsSpace)
	if len(parts) == 0 {
		return "?"
	}
	first := []rune(parts[0])[:1]
	if len(parts) == 1 {
		return strings.ToUpper(string(first))
	}
	last := []rune(parts[len(parts)-1])[:1]
	return strings.ToUpper(string(first) + string(last))
}

func Reason(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
