// Package session models the signed-in state of the console.
package session

import (
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
)

type State int

const (
	Initializing State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	Token       string
	User        *user.User
	Initialized bool
}

func (s Snapshot) State() State {
	switch {
	case !s.Initialized:
		return Initializing
	case s.Authenticated():
		return Authenticated
	}
	return Unauthenticated
}

func (s Snapshot) Loading() bool { return !s.Initialized }

// Authenticated holds exactly when both a user and a token are present.
func (s Snapshot) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

func (s Snapshot) Role() string {
	if s.User == nil {
		return ""
	}
	return string(s.User.Role)
}
