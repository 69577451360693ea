package user

import (
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleOfficer Role = "officer"
)

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Label is the role as shown in the console.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleOfficer:
		return "Personnel"
	case "":
		return ""
	}
	return cases.Title(language.English).String(string(r))
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errors.New("invalid account status")
	}
	return status, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Directory status labels.
const (
	DisplayActive      = "Active"
	DisplayDeactivated = "Deactivated"
	DisplayRejected    = "Rejected"
	DisplayUnknown     = "—"
)
