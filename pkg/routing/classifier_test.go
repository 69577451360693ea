package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_ConsolePages(t *testing.T) {
	t.Parallel()

	cases := map[string]RouteClass{
		"/login":                   RouteClassPublic,
		"/reset-password":          RouteClassPublic,
		"/dashboard":               RouteClassAuthenticated,
		"/account-approvals":       RouteClassAdmin,
		"/officers":                RouteClassAdmin,
		"/task-management/create":  RouteClassAdmin,
		"/task-management-archive": RouteClassAuthenticated,
		"/profile":                 RouteClassAuthenticated,
	}
	for path, want := range cases {
		assert.Equal(t, want, Console.ClassifyPath(path), path)
	}
}

func TestClassifier_LongestPrefixWins(t *testing.T) {
	t.Parallel()

	c := NewClassifier([]Rule{
		{Prefix: "/task-management", Class: RouteClassAdmin},
		{Prefix: "/task-management/mine", Class: RouteClassAuthenticated},
		{Prefix: "  ", Class: RouteClassPublic},
	})
	assert.Equal(t, RouteClassAuthenticated, c.ClassifyPath("/task-management/mine/3"))
	assert.Equal(t, RouteClassAdmin, c.ClassifyPath("/task-management/3"))
}

func TestClassifier_Decide(t *testing.T) {
	t.Parallel()

	officer := fakeSession{authed: true, role: "officer"}
	assert.Equal(t, Decision{Kind: Redirect, Target: DashboardPath}, Console.Decide("/officers", officer))
	assert.Equal(t, Decision{Kind: Redirect, Target: DashboardPath}, Console.Decide("/login", officer))
	assert.True(t, Console.Decide("/dashboard", officer).Allowed())
	assert.Equal(t, Decision{Kind: Redirect, Target: LoginPath}, Console.Decide("/dashboard", fakeSession{}))
}

func TestHasPathPrefixOnBoundary(t *testing.T) {
	t.Parallel()

	assert.True(t, HasPathPrefixOnBoundary("/officers", "/officers"))
	assert.True(t, HasPathPrefixOnBoundary("/officers/7", "/officers"))
	assert.False(t, HasPathPrefixOnBoundary("/officersx", "/officers"))
	assert.True(t, HasPathPrefixOnBoundary("/anything", "/"))
	assert.False(t, HasPathPrefixOnBoundary("/officers", ""))
}
