// Package application is the dependency container shared by the modules.
package application

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/tokenstore"
	"github.com/tasdonena/admin-console/pkg/types"
)

type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	API() *apiclient.Client
	Tokens() tokenstore.Store
	Logger() *logrus.Logger
	Confirmer() inflight.Confirmer
	PageSize() int
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
	RegisterNavItems(items ...types.NavigationItem)
	NavItems(role string) []types.NavigationItem
}

type ApplicationOptions struct {
	API       *apiclient.Client
	Tokens    tokenstore.Store
	Logger    *logrus.Logger
	Confirmer inflight.Confirmer
	PageSize  int
}

func New(opts *ApplicationOptions) Application {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Confirmer == nil {
		opts.Confirmer = inflight.AutoConfirm{}
	}
	return &application{
		api:       opts.API,
		tokens:    opts.Tokens,
		logger:    opts.Logger,
		confirmer: opts.Confirmer,
		pageSize:  opts.PageSize,
		services:  make(map[reflect.Type]interface{}),
	}
}

type application struct {
	api       *apiclient.Client
	tokens    tokenstore.Store
	logger    *logrus.Logger
	confirmer inflight.Confirmer
	pageSize  int
	services  map[reflect.Type]interface{}
	navItems  []types.NavigationItem
}

func (app *application) API() *apiclient.Client { return app.api }

func (app *application) Tokens() tokenstore.Store { return app.tokens }

func (app *application) Logger() *logrus.Logger { return app.logger }

func (app *application) Confirmer() inflight.Confirmer { return app.confirmer }

func (app *application) PageSize() int { return app.pageSize }

// RegisterServices registers a new service in the application by its type
func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type
func (app *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) Services() map[reflect.Type]interface{} {
	return app.services
}

func (app *application) RegisterNavItems(items ...types.NavigationItem) {
	app.navItems = append(app.navItems, items...)
}

// NavItems returns the navigation visible to role, in registration order.
func (app *application) NavItems(role string) []types.NavigationItem {
	out := make([]types.NavigationItem, 0, len(app.navItems))
	for _, item := range app.navItems {
		if item.Visible(role) {
			out = append(out, item)
		}
	}
	return out
}
