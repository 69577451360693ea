package mappers

import (
	"time"

	"github.com/tasdonena/admin-console/modules/tasks/domain/aggregates/task"
	"github.com/tasdonena/admin-console/modules/tasks/presentation/viewmodels"
	"github.com/tasdonena/admin-console/modules/tasks/services"
	"github.com/tasdonena/admin-console/pkg/constants"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/listview"
)

const dash = "—"

// FormatDate renders an API date as "Jan 2, 2006", passing through values
// that do not parse.
func FormatDate(s *string) string {
	if s == nil || *s == "" {
		return dash
	}
	d, err := time.Parse(constants.DateLayout, constants.DatePart(*s))
	if err != nil {
		return *s
	}
	return d.Format("Jan 2, 2006")
}

func TaskToRow(t task.Task) *viewmodels.TaskRow {
	row := &viewmodels.TaskRow{
		ID:       t.ID,
		Title:    t.Title,
		KRA:      dash,
		Status:   t.Status.Label(),
		Priority: t.Priority.Label(),
		Assignee: t.AssigneeLabel(),
		DueDate:  FormatDate(t.DueDate),
	}
	if t.KRA != nil && *t.KRA != "" {
		row.KRA = *t.KRA
	}
	if t.KRAWeight != nil {
		row.Weight = t.KRAWeight.StringFixed(2)
	}
	return row
}

func TasksToPage(c *listview.Controller[task.Task], busy *inflight.Tracker) *viewmodels.TasksPage {
	v := c.View()
	rows := make([]*viewmodels.TaskRow, 0, len(v.Items))
	for _, t := range v.Items {
		row := TaskToRow(t)
		if busy != nil {
			row.Busy = busy.IsBusy(t.Key())
		}
		rows = append(rows, row)
	}
	status, _ := c.Filter(services.StatusFilter)
	kra, _ := c.Filter(services.KRAFilter)
	page := &viewmodels.TasksPage{
		Rows:       rows,
		Query:      c.Query(),
		Status:     status,
		KRA:        kra,
		Page:       v.Page,
		TotalPages: v.TotalPages,
		From:       v.From,
		To:         v.To,
		Filtered:   v.Filtered,
		Total:      v.Total,
	}
	if v.Empty != listview.EmptyNone {
		page.Empty = v.Empty.String()
	}
	return page
}
