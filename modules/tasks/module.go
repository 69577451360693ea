package tasks

import (
	"github.com/tasdonena/admin-console/modules/tasks/infrastructure/persistence"
	"github.com/tasdonena/admin-console/modules/tasks/services"
	"github.com/tasdonena/admin-console/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "tasks"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewTaskService(persistence.NewTaskRepository(app.API()), app.Confirmer(), app.PageSize(), app.Logger()),
	)
	app.RegisterNavItems(NavItems...)
	return nil
}
