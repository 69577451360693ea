package mappers

import (
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/modules/personnel/domain/aggregates/account"
	"github.com/tasdonena/admin-console/modules/personnel/presentation/viewmodels"
	"github.com/tasdonena/admin-console/modules/personnel/services"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/listview"
)

func valueOrDash(s string) string {
	if s == "" {
		return user.DisplayUnknown
	}
	return s
}

func AccountToRow(u user.User) *viewmodels.AccountRow {
	row := &viewmodels.AccountRow{
		ID:         u.ID,
		Initials:   u.Initials(),
		Name:       u.Name,
		Email:      u.Email,
		EmployeeID: valueOrDash(u.EmployeeID),
		Position:   valueOrDash(u.Position),
		Division:   valueOrDash(u.Division),
		School:     valueOrDash(u.SchoolName),
		Role:       u.RoleLabel(),
		Status:     u.DisplayStatus(),
	}
	switch row.Status {
	case user.DisplayRejected:
		row.Reason = user.Reason(u.RejectionReason)
	case user.DisplayDeactivated:
		row.Reason = user.Reason(u.DeactivationReason)
	}
	return row
}

// AccountsToPage maps the visible page of a controller. busy may be nil.
func AccountsToPage(c *listview.Controller[user.User], busy *inflight.Tracker, filter string) *viewmodels.AccountsPage {
	v := c.View()
	rows := make([]*viewmodels.AccountRow, 0, len(v.Items))
	for _, u := range v.Items {
		row := AccountToRow(u)
		if busy != nil {
			row.Busy = busy.IsBusy(u.Key())
		}
		rows = append(rows, row)
	}
	page := &viewmodels.AccountsPage{
		Rows:       rows,
		Query:      c.Query(),
		Page:       v.Page,
		TotalPages: v.TotalPages,
		From:       v.From,
		To:         v.To,
		Filtered:   v.Filtered,
		Total:      v.Total,
	}
	if filter != "" {
		page.Status, _ = c.Filter(filter)
	}
	if v.Empty != listview.EmptyNone {
		page.Empty = v.Empty.String()
	}
	return page
}

func StatsToCards(s account.Stats) []viewmodels.StatsCard {
	card := func(label string, n int) viewmodels.StatsCard {
		return viewmodels.StatsCard{Label: label, Value: services.FormatStatNumber(n), Exact: services.FormatExact(n)}
	}
	return []viewmodels.StatsCard{
		card("Total personnel", s.Total),
		card("Active", s.Active),
		card("Deactivated", s.Deactivated),
		card("Rejected", s.Rejected),
	}
}
