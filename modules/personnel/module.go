package personnel

import (
	"github.com/tasdonena/admin-console/modules/personnel/infrastructure/persistence"
	"github.com/tasdonena/admin-console/modules/personnel/services"
	"github.com/tasdonena/admin-console/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "personnel"
}

func (m *Module) Register(app application.Application) error {
	repo := persistence.NewAccountRepository(app.API())
	notifications := services.NewNotificationService(app.Logger())
	app.RegisterServices(
		notifications,
		services.NewApprovalsService(repo, notifications, app.Confirmer(), app.PageSize(), app.Logger()),
		services.NewPersonnelService(repo, app.Confirmer(), app.PageSize(), app.Logger()),
	)
	app.RegisterNavItems(NavItems...)
	return nil
}
