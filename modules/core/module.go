package core

import (
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/session"
	"github.com/tasdonena/admin-console/modules/core/infrastructure/persistence"
	"github.com/tasdonena/admin-console/modules/core/services"
	"github.com/tasdonena/admin-console/pkg/application"
	"github.com/tasdonena/admin-console/pkg/eventbus"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	authRepo := persistence.NewAuthRepository(app.API())
	topic := eventbus.NewTopic[session.Snapshot](services.SessionTopic, app.Logger())
	app.RegisterServices(
		services.NewSessionService(authRepo, app.Tokens(), topic, app.Logger()),
	)
	app.RegisterNavItems(NavItems...)
	return nil
}
