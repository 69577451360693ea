package main

import (
	"github.com/spf13/cobra"

	"github.com/tasdonena/admin-console/modules/personnel"
	"github.com/tasdonena/admin-console/pkg/routing"
)

type navEntry struct {
	Heading string `json:"heading"`
	Name    string `json:"name"`
	Href    string `json:"href"`
	Badge   string `json:"badge,omitempty"`
}

func (c *cli) newNavCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "nav",
		Short:   "Show the navigation available to the signed-in role",
		Args:    cobra.NoArgs,
		PreRunE: c.guarded(routing.DashboardPath),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := c.rt.session.Snapshot()
			items := c.rt.app.NavItems(snap.Role())

			badges := map[string]string{}
			for _, item := range items {
				if item.BadgeKey == personnel.PendingApprovalsBadge {
					// A failed fetch publishes zero, so the badge still renders.
					svc := c.approvals()
					_ = svc.Load(cmd.Context())
					badges[item.BadgeKey] = svc.Notifications().Badge()
					break
				}
			}

			entries := make([]navEntry, 0, len(items))
			for _, item := range items {
				entries = append(entries, navEntry{Heading: item.Heading, Name: item.Name, Href: item.Href, Badge: badges[item.BadgeKey]})
			}
			if c.jsonOut {
				return writeJSONLine(c.out, entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Heading, e.Name, e.Href, e.Badge})
			}
			return writeTable(c.out, []string{"SECTION", "ITEM", "PATH", ""}, rows)
		},
	}
}
