package mappers_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tasdonena/admin-console/modules/tasks/domain/aggregates/task"
	"github.com/tasdonena/admin-console/modules/tasks/presentation/mappers"
)

func TestFormatDate(t *testing.T) {
	t.Parallel()

	s := func(v string) *string { return &v }
	assert.Equal(t, "—", mappers.FormatDate(nil))
	assert.Equal(t, "Feb 14, 2026", mappers.FormatDate(s("2026-02-14")))
	assert.Equal(t, "Feb 14, 2026", mappers.FormatDate(s("2026-02-14T00:00:00.000000Z")))
	assert.Equal(t, "soon", mappers.FormatDate(s("soon")))
}

func TestTaskToRow(t *testing.T) {
	t.Parallel()

	row := mappers.TaskToRow(task.Task{
		ID:        2,
		Title:     "Report",
		KRAWeight: task.NewWeight(decimal.RequireFromString("12.5")),
		Status:    task.StatusInProgress,
		Assignee:  &task.Assignee{ID: 4, Name: "Ana Cruz"},
	})
	assert.Equal(t, "—", row.KRA)
	assert.Equal(t, "12.50", row.Weight)
	assert.Equal(t, "In progress", row.Status)
	assert.Equal(t, "Medium", row.Priority)
	assert.Equal(t, "Ana Cruz", row.Assignee)
	assert.Equal(t, "—", row.DueDate)
}
