package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasdonena/admin-console/pkg/logging"
	"github.com/tasdonena/admin-console/pkg/types"
)

type fakeService struct{ name string }

func TestServices(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{Logger: logging.Discard()})
	svc := &fakeService{name: "approvals"}
	app.RegisterServices(svc)

	got, ok := app.Service(fakeService{}).(*fakeService)
	require.True(t, ok)
	assert.Same(t, svc, got)
	assert.Len(t, app.Services(), 1)

	type missing struct{}
	assert.Panics(t, func() { app.Service(missing{}) })
}

func TestNavItems(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	app.RegisterNavItems(
		types.NavigationItem{Name: "Dashboard", Href: "/dashboard"},
		types.NavigationItem{Name: "Account approvals", Href: "/account-approvals", AdminOnly: true},
	)
	assert.Len(t, app.NavItems("admin"), 2)
	officer := app.NavItems("officer")
	require.Len(t, officer, 1)
	assert.Equal(t, "Dashboard", officer[0].Name)
}
