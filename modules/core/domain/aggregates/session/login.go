package session

import (
	"strings"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
)

const (
	BusinessStatusRejected    = "rejected"
	BusinessStatusDeactivated = "deactivated"
	BusinessStatusPending     = "pending"
	BusinessStatusUnverified  = "unverified"
)

type LoginResult struct {
	Success bool
	User    *user.User
	Error   string
	// Status is the business status the API attached to a refusal.
	Status string
}

// Notice is the blocking dialog shown for accounts that cannot sign in.
type Notice struct {
	Title string
	Body  string
}

var notices = map[string]Notice{
	BusinessStatusRejected: {
		Title: "Account rejected",
		Body:  "Your account has been rejected and you cannot sign in.",
	},
	BusinessStatusDeactivated: {
		Title: "Account deactivated",
		Body:  "Your account has been deactivated and you cannot sign in.",
	},
}

// BlockingNotice reports whether the refusal is a rejected or deactivated
// account, detected from the status or the error text.
func (r LoginResult) BlockingNotice() (Notice, bool) {
	if r.Success {
		return Notice{}, false
	}
	lower := strings.ToLower(r.Error)
	for _, status := range []string{BusinessStatusRejected, BusinessStatusDeactivated} {
		if r.Status == status || strings.Contains(lower, status) {
			n := notices[status]
			if r.Error != "" {
				n.Body = r.Error
			}
			return n, true
		}
	}
	return Notice{}, false
}

type RegisterResult struct {
	Success bool
	Message string
	Email   string
}
