// Package account holds the personnel directory and approval queue rules.
package account

import (
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/pkg/listview"
)

// Directory status filter values.
const (
	FilterAll         = "all"
	FilterActive      = user.DisplayActive
	FilterDeactivated = user.DisplayDeactivated
	FilterRejected    = user.DisplayRejected
)

var StatusFilters = []string{FilterAll, FilterActive, FilterDeactivated, FilterRejected}

// PendingApprovalsChanged is published whenever the pending queue is fetched.
type PendingApprovalsChanged struct {
	Count int
}

type Stats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Deactivated int `json:"deactivated"`
	Rejected    int `json:"rejected"`
}

// ComputeStats counts directory records. Pending accounts are not part of
// the directory and are skipped.
func ComputeStats(users []user.User) Stats {
	var s Stats
	for _, u := range users {
		if u.IsPending() {
			continue
		}
		s.Total++
		switch u.DisplayStatus() {
		case user.DisplayActive:
			s.Active++
		case user.DisplayDeactivated:
			s.Deactivated++
		case user.DisplayRejected:
			s.Rejected++
		}
	}
	return s
}

// DirectoryOnly drops pending accounts.
func DirectoryOnly(users []user.User) []user.User {
	out := make([]user.User, 0, len(users))
	for _, u := range users {
		if !u.IsPending() {
			out = append(out, u)
		}
	}
	return out
}

// SearchFields are matched by the approvals and directory searches.
var SearchFields = []listview.Field[user.User]{
	func(u user.User) string { return u.Name },
	func(u user.User) string { return u.Email },
	func(u user.User) string { return u.EmployeeID },
	func(u user.User) string { return u.Position },
	func(u user.User) string { return u.Division },
	func(u user.User) string { return u.SchoolName },
}
