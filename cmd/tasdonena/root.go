package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tasdonena/admin-console/modules"
	coreservices "github.com/tasdonena/admin-console/modules/core/services"
	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/application"
	"github.com/tasdonena/admin-console/pkg/configuration"
	"github.com/tasdonena/admin-console/pkg/routing"
	"github.com/tasdonena/admin-console/pkg/telemetry"
	"github.com/tasdonena/admin-console/pkg/tokenstore"
)

var envFiles = []string{".env", ".env.local"}

const (
	refusedSignedIn = "already signed in: run `tasdonena logout` first"
	refusedAdmin    = "admin role required"
)

// runtime is everything a command needs once configuration is resolved.
type runtime struct {
	app     application.Application
	session *coreservices.SessionService
	conf    *configuration.Configuration
	cleanup func()
}

type cli struct {
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	jsonOut   bool
	confirmer *promptConfirmer

	setup func(c *cli) (*runtime, error)
	rt    *runtime
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{
		in:        in,
		out:       out,
		errOut:    errOut,
		confirmer: newPromptConfirmer(in, errOut),
		setup:     defaultSetup,
	}
}

func defaultSetup(c *cli) (*runtime, error) {
	conf, err := configuration.Load(envFiles)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("configuration: %w", err))
	}
	path, err := conf.Session.TokenPath()
	if err != nil {
		conf.Unload()
		return nil, withCode(exitGeneric, fmt.Errorf("resolve token path: %w", err))
	}
	log := conf.Logger()
	tokens := tokenstore.NewFileStore(path)

	shutdown := func() {}
	if conf.OpenTelemetry.Enabled {
		shutdown = telemetry.SetupTracing(context.Background(), conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.ExporterURL, log)
	}

	client, err := apiclient.New(conf.API.BaseURL(),
		apiclient.WithTimeout(conf.API.Timeout),
		apiclient.WithRequestIDHeader(conf.API.RequestIDHeader),
		apiclient.WithTokenSource(tokens),
		apiclient.WithLogger(log),
	)
	if err != nil {
		shutdown()
		conf.Unload()
		return nil, withCode(exitUsage, err)
	}
	rt, err := buildRuntime(c, client, tokens, conf, log)
	if err != nil {
		shutdown()
		conf.Unload()
		return nil, err
	}
	rt.cleanup = func() {
		shutdown()
		conf.Unload()
	}
	return rt, nil
}

func buildRuntime(c *cli, client *apiclient.Client, tokens tokenstore.Store, conf *configuration.Configuration, log *logrus.Logger) (*runtime, error) {
	app := application.New(&application.ApplicationOptions{
		API:       client,
		Tokens:    tokens,
		Logger:    log,
		Confirmer: c.confirmer,
		PageSize:  conf.PageSize,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		return nil, withCode(exitGeneric, fmt.Errorf("load modules: %w", err))
	}
	return &runtime{
		app:     app,
		session: app.Service(coreservices.SessionService{}).(*coreservices.SessionService),
		conf:    conf,
		cleanup: func() {},
	}, nil
}

func (c *cli) runtime() (*runtime, error) {
	if c.rt != nil {
		return c.rt, nil
	}
	rt, err := c.setup(c)
	if err != nil {
		return nil, err
	}
	c.rt = rt
	return rt, nil
}

func (c *cli) close() {
	if c.rt != nil {
		c.rt.cleanup()
		c.rt = nil
	}
}

// guarded resolves the session and applies the guard of the console page at
// path before a command runs.
func (c *cli) guarded(path string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := c.runtime()
		if err != nil {
			return err
		}
		d := routing.Console.Decide(path, rt.session.Init(cmd.Context()))
		if d.Allowed() {
			return nil
		}
		switch {
		case d.Kind == routing.Loading:
			return withCode(exitGeneric, errors.New("session is still loading"))
		case d.Target == routing.LoginPath:
			return withCode(exitUsage, errors.New("login required: run `tasdonena auth login`"))
		case routing.Console.ClassifyPath(path) == routing.RouteClassPublic:
			return withCode(exitUsage, errors.New(refusedSignedIn))
		default:
			return withCode(exitUsage, errors.New(refusedAdmin))
		}
	}
}

func (c *cli) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tasdonena",
		Short:         "TasDoneNa admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print JSON lines instead of tables")
	root.PersistentFlags().BoolVarP(&c.confirmer.assumeYes, "yes", "y", false, "answer yes to confirmation prompts")

	root.AddCommand(
		c.newAuthCmd(),
		c.newWhoamiCmd(),
		c.newLogoutCmd(),
		c.newNavCmd(),
		c.newApprovalsCmd(),
		c.newPersonnelCmd(),
		c.newTasksCmd(),
	)
	return root
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	c := newCLI(in, out, errOut)
	defer c.close()
	root := c.newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func Execute() {
	err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		w := bufio.NewWriter(os.Stderr)
		fmt.Fprintln(w, err)
		_ = w.Flush()
		os.Exit(exitCode(err))
	}
}
