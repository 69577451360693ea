// Package routing decides whether a guarded surface may render for the
// current session.
package routing

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

const adminRole = "admin"

type Kind int

const (
	Render Kind = iota
	Loading
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "render"
	}
}

type Decision struct {
	Kind   Kind
	Target string
}

func (d Decision) Allowed() bool { return d.Kind == Render }

// Session is the read side of the session state a guard needs.
type Session interface {
	Loading() bool
	Authenticated() bool
	Role() string
}

type Guard func(Session) Decision

func PublicOnly(s Session) Decision {
	switch {
	case s.Loading():
		return Decision{Kind: Loading}
	case s.Authenticated():
		return Decision{Kind: Redirect, Target: DashboardPath}
	}
	return Decision{Kind: Render}
}

func AuthenticatedOnly(s Session) Decision {
	switch {
	case s.Loading():
		return Decision{Kind: Loading}
	case !s.Authenticated():
		return Decision{Kind: Redirect, Target: LoginPath}
	}
	return Decision{Kind: Render}
}

func AdminOnly(s Session) Decision {
	d := AuthenticatedOnly(s)
	if d.Kind != Render {
		return d
	}
	if s.Role() != adminRole {
		return Decision{Kind: Redirect, Target: DashboardPath}
	}
	return d
}
