package modules

import (
	"slices"

	"github.com/tasdonena/admin-console/modules/core"
	"github.com/tasdonena/admin-console/modules/personnel"
	"github.com/tasdonena/admin-console/modules/tasks"
	"github.com/tasdonena/admin-console/pkg/application"
)

var (
	BuiltInModules = []application.Module{
		core.NewModule(),
		personnel.NewModule(),
		tasks.NewModule(),
	}

	NavLinks = slices.Concat(
		core.NavItems,
		personnel.NavItems,
		tasks.NavItems,
	)
)

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
