package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/modules/personnel"
	personnelservices "github.com/tasdonena/admin-console/modules/personnel/services"
	"github.com/tasdonena/admin-console/modules/personnel/presentation/mappers"
	"github.com/tasdonena/admin-console/modules/personnel/presentation/viewmodels"
	"github.com/tasdonena/admin-console/pkg/constants"
	"github.com/tasdonena/admin-console/pkg/export"
	"github.com/tasdonena/admin-console/pkg/inflight"
)

var personnelColumns = []export.Column[*viewmodels.AccountRow]{
	{Header: "ID", Value: func(r *viewmodels.AccountRow) any { return r.ID }},
	{Header: "Name", Value: func(r *viewmodels.AccountRow) any { return r.Name }},
	{Header: "Email", Value: func(r *viewmodels.AccountRow) any { return r.Email }},
	{Header: "Employee ID", Value: func(r *viewmodels.AccountRow) any { return r.EmployeeID }},
	{Header: "Position", Value: func(r *viewmodels.AccountRow) any { return r.Position }},
	{Header: "Division", Value: func(r *viewmodels.AccountRow) any { return r.Division }},
	{Header: "School", Value: func(r *viewmodels.AccountRow) any { return r.School }},
	{Header: "Role", Value: func(r *viewmodels.AccountRow) any { return r.Role }},
	{Header: "Status", Value: func(r *viewmodels.AccountRow) any { return r.Status }},
	{Header: "Reason", Value: func(r *viewmodels.AccountRow) any { return r.Reason }},
}

func (c *cli) personnel() *personnelservices.PersonnelService {
	return c.rt.app.Service(personnelservices.PersonnelService{}).(*personnelservices.PersonnelService)
}

func (c *cli) newPersonnelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "personnel",
		Short:             "Browse and manage the personnel directory",
		PersistentPreRunE: c.guarded(personnel.PersonnelLink.Href),
	}
	cmd.AddCommand(
		c.newPersonnelListCmd(),
		c.newPersonnelStatsCmd(),
		c.newPersonnelActionCmd("reapprove", "Approve a rejected account", user.DisplayRejected, "remarks",
			(*personnelservices.PersonnelService).Reapprove),
		c.newPersonnelActionCmd("deactivate", "Deactivate an active account", user.DisplayActive, "reason",
			(*personnelservices.PersonnelService).Deactivate),
		c.newPersonnelActionCmd("activate", "Activate a deactivated account", user.DisplayDeactivated, "",
			(*personnelservices.PersonnelService).Activate),
		c.newPersonnelDeleteCmd(),
	)
	return cmd
}

func (c *cli) newPersonnelListCmd() *cobra.Command {
	var (
		lf     listFlags
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List non-pending accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.personnel()
			if err := svc.Load(cmd.Context()); err != nil {
				return userError(err, nil, "")
			}
			if err := svc.SetStatusFilter(status); err != nil {
				return withCode(exitUsage, err)
			}
			if err := applyListFlags(svc.List(), lf); err != nil {
				return err
			}
			if lf.xlsx != "" {
				matching := svc.List().Matching()
				rows := make([]*viewmodels.AccountRow, 0, len(matching))
				for _, u := range matching {
					rows = append(rows, mappers.AccountToRow(u))
				}
				if err := export.SaveXLSX(lf.xlsx, export.TableOf("Personnel", personnelColumns, rows)); err != nil {
					return withCode(exitGeneric, err)
				}
				fmt.Fprintf(c.errOut, "Wrote %d rows to %s\n", len(rows), lf.xlsx)
			}

			page := mappers.AccountsToPage(svc.List(), svc.Busy(), personnelservices.StatusFilter)
			if c.jsonOut {
				return writeJSONLine(c.out, page)
			}
			if msg := emptyMessage(svc.List().View().Empty, "No personnel found.", "No personnel match your filters."); msg != "" {
				fmt.Fprintln(c.out, msg)
				return nil
			}
			rows := make([][]string, 0, len(page.Rows))
			for _, r := range page.Rows {
				rows = append(rows, []string{fmt.Sprint(r.ID), r.Initials, r.Name, r.Email, r.Position, r.Division, r.Status})
			}
			if err := writeTable(c.out, []string{"ID", "", "NAME", "EMAIL", "POSITION", "DIVISION", "STATUS"}, rows); err != nil {
				return err
			}
			pageFooter(c.out, page.From, page.To, page.Filtered, page.Page, page.TotalPages)
			return nil
		},
	}
	lf.register(cmd, true)
	cmd.Flags().StringVar(&status, "status", "all", "all, Active, Deactivated or Rejected")
	return cmd
}

func (c *cli) newPersonnelStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show directory totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.personnel()
			if err := svc.Load(cmd.Context()); err != nil {
				return userError(err, nil, "")
			}
			cards := mappers.StatsToCards(svc.Stats())
			if c.jsonOut {
				return writeJSONLine(c.out, cards)
			}
			rows := make([][]string, 0, len(cards))
			for _, card := range cards {
				rows = append(rows, []string{card.Label, card.Value, card.Exact})
			}
			return writeTable(c.out, []string{"", "COUNT", "EXACT"}, rows)
		},
	}
}

type personnelAction func(*personnelservices.PersonnelService, context.Context, user.User) (inflight.Outcome, error)

// newPersonnelActionCmd builds a row action offered only while the account
// shows the required status.
func (c *cli) newPersonnelActionCmd(name, short, requires, inputFlag string, act personnelAction) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, u, err := c.findPersonnel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if status := u.DisplayStatus(); status != requires {
				return wrongState(name, u.Name, status)
			}
			if inputFlag != "" {
				c.confirmer.Preset(input, cmd.Flags().Changed(inputFlag))
			}
			out, err := act(svc, cmd.Context(), u)
			if err != nil {
				return userError(err, nil, "")
			}
			return c.reportOutcome(out)
		},
	}
	if inputFlag != "" {
		cmd.Flags().StringVar(&input, inputFlag, "", inputFlag+" sent with the action")
	}
	return cmd
}

func (c *cli) newPersonnelDeleteCmd() *cobra.Command {
	var confirm string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently remove an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, u, err := c.findPersonnel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.confirmer.Preset(confirm, cmd.Flags().Changed("confirm"))
			out, err := svc.Delete(cmd.Context(), u)
			if err != nil {
				return userError(err, nil, "")
			}
			return c.reportOutcome(out)
		},
	}
	cmd.Flags().StringVar(&confirm, "confirm", "", fmt.Sprintf("type %s to skip the prompt", constants.DeleteConfirmWord))
	return cmd
}

func (c *cli) findPersonnel(ctx context.Context, arg string) (*personnelservices.PersonnelService, user.User, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, user.User{}, err
	}
	svc := c.personnel()
	if err := svc.Load(ctx); err != nil {
		return nil, user.User{}, userError(err, nil, "")
	}
	u, ok := svc.Find(id)
	if !ok {
		return nil, user.User{}, notFound("personnel", id)
	}
	return svc, u, nil
}
