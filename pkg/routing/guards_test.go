package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	loading bool
	authed  bool
	role    string
}

func (f fakeSession) Loading() bool       { return f.loading }
func (f fakeSession) Authenticated() bool { return f.authed }
func (f fakeSession) Role() string        { return f.role }

func TestGuards(t *testing.T) {
	t.Parallel()

	loading := fakeSession{loading: true}
	anon := fakeSession{}
	officer := fakeSession{authed: true, role: "officer"}
	admin := fakeSession{authed: true, role: "admin"}

	cases := []struct {
		name  string
		guard Guard
		s     Session
		want  Decision
	}{
		{"public loading", PublicOnly, loading, Decision{Kind: Loading}},
		{"public anon", PublicOnly, anon, Decision{Kind: Render}},
		{"public authed", PublicOnly, officer, Decision{Kind: Redirect, Target: DashboardPath}},
		{"auth loading", AuthenticatedOnly, loading, Decision{Kind: Loading}},
		{"auth anon", AuthenticatedOnly, anon, Decision{Kind: Redirect, Target: LoginPath}},
		{"auth officer", AuthenticatedOnly, officer, Decision{Kind: Render}},
		{"admin loading", AdminOnly, loading, Decision{Kind: Loading}},
		{"admin anon", AdminOnly, anon, Decision{Kind: Redirect, Target: LoginPath}},
		{"admin officer", AdminOnly, officer, Decision{Kind: Redirect, Target: DashboardPath}},
		{"admin admin", AdminOnly, admin, Decision{Kind: Render}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.guard(tc.s))
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "render", Render.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "redirect", Redirect.String())
	assert.True(t, Decision{Kind: Render}.Allowed())
	assert.False(t, Decision{Kind: Loading}.Allowed())
}
