package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tasdonena/admin-console/modules/personnel"
	"github.com/tasdonena/admin-console/modules/personnel/domain/aggregates/account"
	personnelservices "github.com/tasdonena/admin-console/modules/personnel/services"
	"github.com/tasdonena/admin-console/modules/personnel/presentation/mappers"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/metrics"
)

const defaultMetricsAddr = ":9464"

func (c *cli) approvals() *personnelservices.ApprovalsService {
	return c.rt.app.Service(personnelservices.ApprovalsService{}).(*personnelservices.ApprovalsService)
}

func (c *cli) newApprovalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "approvals",
		Short:             "Review accounts waiting for approval",
		PersistentPreRunE: c.guarded(personnel.AccountApprovalsLink.Href),
	}
	cmd.AddCommand(
		c.newApprovalsListCmd(),
		c.newApprovalsDecisionCmd("approve", "remarks"),
		c.newApprovalsDecisionCmd("reject", "reason"),
		c.newApprovalsWatchCmd(),
	)
	return cmd
}

func (c *cli) newApprovalsListCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.approvals()
			if err := svc.Load(cmd.Context()); err != nil {
				return userError(err, nil, "")
			}
			if err := applyListFlags(svc.List(), lf); err != nil {
				return err
			}
			page := mappers.AccountsToPage(svc.List(), svc.Busy(), "")
			if c.jsonOut {
				return writeJSONLine(c.out, page)
			}
			if msg := emptyMessage(svc.List().View().Empty, "No pending approvals.", "No pending users match your search."); msg != "" {
				fmt.Fprintln(c.out, msg)
				return nil
			}
			rows := make([][]string, 0, len(page.Rows))
			for _, r := range page.Rows {
				rows = append(rows, []string{fmt.Sprint(r.ID), r.Name, r.Email, r.EmployeeID, r.Position, r.Division, r.School})
			}
			if err := writeTable(c.out, []string{"ID", "NAME", "EMAIL", "EMPLOYEE ID", "POSITION", "DIVISION", "SCHOOL"}, rows); err != nil {
				return err
			}
			pageFooter(c.out, page.From, page.To, page.Filtered, page.Page, page.TotalPages)
			return nil
		},
	}
	lf.register(cmd, false)
	return cmd
}

// newApprovalsDecisionCmd builds approve and reject, which differ only in
// the service call and the name of the free-text flag.
func (c *cli) newApprovalsDecisionCmd(action, inputFlag string) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   action + " <id>",
		Short: cases.Title(language.English).String(action) + " a pending account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc := c.approvals()
			if err := svc.Load(cmd.Context()); err != nil {
				return userError(err, nil, "")
			}
			u, ok := svc.Find(id)
			if !ok {
				return notFound("pending user", id)
			}
			c.confirmer.Preset(input, cmd.Flags().Changed(inputFlag))
			run := svc.Approve
			if action == "reject" {
				run = svc.Reject
			}
			out, err := run(cmd.Context(), u)
			if err != nil {
				return userError(err, nil, "")
			}
			return c.reportOutcome(out)
		},
	}
	cmd.Flags().StringVar(&input, inputFlag, "", fmt.Sprintf("%s sent with the decision", inputFlag))
	return cmd
}

func (c *cli) reportOutcome(out inflight.Outcome) error {
	if out.RefreshErr != nil {
		fmt.Fprintf(c.errOut, "warning: %v\n", out.RefreshErr)
	}
	if c.jsonOut {
		return writeJSONLine(c.out, map[string]string{"message": out.Message})
	}
	fmt.Fprintln(c.out, out.Message)
	return nil
}

func (c *cli) newApprovalsWatchCmd() *cobra.Command {
	var (
		interval    time.Duration
		metricsAddr string
		iterations  int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the pending queue and print badge changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return withCode(exitUsage, fmt.Errorf("interval must be positive, got %s", interval))
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if metricsAddr == "" && c.rt.conf.Prometheus.Enabled {
				metricsAddr = defaultMetricsAddr
			}
			if metricsAddr != "" {
				srv := metrics.NewServer(metricsAddr,
					metrics.NewPrometheusController(c.rt.conf.Prometheus.Path, prometheus.DefaultGatherer),
					c.rt.app.Logger())
				go func() {
					if err := srv.ListenAndServe(ctx); err != nil {
						c.rt.app.Logger().WithError(err).Error("metrics server stopped")
					}
				}()
			}
			return c.watchApprovals(ctx, interval, iterations)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "poll interval")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "stop after this many polls (0 runs until interrupted)")
	_ = cmd.Flags().MarkHidden("iterations")
	return cmd
}

func (c *cli) watchApprovals(ctx context.Context, interval time.Duration, iterations int) error {
	svc := c.approvals()
	last := -1
	unsubscribe := svc.Notifications().Subscribe(func(ev account.PendingApprovalsChanged) {
		if ev.Count == last {
			return
		}
		last = ev.Count
		if c.jsonOut {
			_ = writeJSONLine(c.out, map[string]any{"pending": ev.Count, "badge": personnelservices.BadgeLabel(ev.Count)})
			return
		}
		fmt.Fprintf(c.out, "%s pending approvals: %s\n", time.Now().Format(time.TimeOnly), personnelservices.BadgeLabel(ev.Count))
	})
	defer unsubscribe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		if err := svc.Load(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(c.errOut, "warning: %v\n", err)
		}
		if iterations > 0 && n >= iterations {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
