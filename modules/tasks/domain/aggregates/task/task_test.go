package task_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasdonena/admin-console/modules/tasks/domain/aggregates/task"
)

func TestPruneMOVs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"A", "B"}, task.PruneMOVs([]string{"A", "", "B"}))
	assert.Equal(t, []string{" keep spacing "}, task.PruneMOVs([]string{" keep spacing ", "  "}))
	assert.Nil(t, task.PruneMOVs([]string{"", "   "}))
	assert.Nil(t, task.PruneMOVs(nil))
}

func TestTaskDTO_PayloadNullsAndDefaults(t *testing.T) {
	t.Parallel()

	dto := task.TaskDTO{
		Title:       "  Submit lesson plans ",
		Description: "   ",
		KRA:         " KRA 1: Teaching ",
		MOVs:        []string{"", ""},
	}
	_, ok := dto.Ok()
	require.True(t, ok)

	b, err := json.Marshal(dto.Payload())
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, "Submit lesson plans", got["title"])
	assert.Equal(t, "KRA 1: Teaching", got["kra"])
	assert.Equal(t, "medium", got["priority"])
	for _, key := range []string{"description", "mfo", "kra_weight", "objective", "movs", "due_date", "cutoff_date", "assigned_to", "timeline_start", "timeline_end"} {
		v, present := got[key]
		assert.True(t, present, key)
		assert.Nil(t, v, key)
	}
	_, hasStatus := got["status"]
	assert.False(t, hasStatus)
}

func TestTaskDTO_Weight(t *testing.T) {
	t.Parallel()

	dto := task.TaskDTO{Title: "x", KRAWeight: "12.345"}
	_, ok := dto.Ok()
	require.True(t, ok)
	b, err := json.Marshal(dto.Payload())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kra_weight":12.35`)

	for in, msg := range map[string]string{
		"abc":    task.MsgWeightNumber,
		"-0.01":  task.MsgWeightRange,
		"100.01": task.MsgWeightRange,
	} {
		d := task.TaskDTO{Title: "x", KRAWeight: in}
		errs, ok := d.Ok()
		require.False(t, ok, in)
		assert.Equal(t, msg, errs["kra_weight"], in)
	}

	for _, in := range []string{"0", "100", " 55.5 "} {
		d := task.TaskDTO{Title: "x", KRAWeight: in}
		_, ok := d.Ok()
		assert.True(t, ok, in)
	}
}

func TestTaskDTO_Validation(t *testing.T) {
	t.Parallel()

	d := task.TaskDTO{Title: "   ", Priority: "urgent", DueDate: "31/01/2026"}
	errs, ok := d.Ok()
	require.False(t, ok)
	assert.Equal(t, task.MsgTitleRequired, d.FirstError(errs))
	assert.Equal(t, task.MsgInvalidDate, errs["due_date"])
	assert.NotEmpty(t, errs["priority"])

	d = task.TaskDTO{Title: "ok", Status: "done"}
	errs, ok = d.Ok()
	require.False(t, ok)
	assert.Contains(t, errs, "status")

	d = task.TaskDTO{Title: "ok", Status: "in_progress", Priority: "high", DueDate: "2026-01-31"}
	_, ok = d.Ok()
	assert.True(t, ok)
}

func TestWeightDecodesServerForms(t *testing.T) {
	t.Parallel()

	var tk task.Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"title":"t","kra_weight":"20.50","assigned_to":null}`), &tk))
	require.NotNil(t, tk.KRAWeight)
	assert.True(t, tk.KRAWeight.Equal(decimal.RequireFromString("20.5")))
	assert.Equal(t, task.AllOfficersLabel, tk.AssigneeLabel())

	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"title":"t","kra_weight":7,"assignee":{"id":2,"name":"Ana"}}`), &tk))
	assert.Equal(t, "7", tk.KRAWeight.String())
	assert.Equal(t, "Ana", tk.AssigneeLabel())
}

func TestLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "In progress", task.StatusInProgress.Label())
	assert.Equal(t, "cancelled", task.StatusCancelled.Label())
	assert.Equal(t, "pending", task.Status("").Label())
	assert.Equal(t, "High", task.PriorityHigh.Label())
	assert.Equal(t, "Medium", task.Priority("").Label())
}

func TestToDTORoundTripsPayload(t *testing.T) {
	t.Parallel()

	desc := "Quarterly"
	id := 4
	tk := task.Task{
		ID:          1,
		Title:       "Report",
		Description: &desc,
		KRAWeight:   task.NewWeight(decimal.RequireFromString("30")),
		MOVs:        []string{"Photo"},
		AssignedTo:  &id,
		Priority:    task.PriorityLow,
		Status:      task.StatusPending,
	}
	dto := tk.ToDTO()
	p := dto.Payload()
	assert.Equal(t, "Report", p.Title)
	assert.Equal(t, &desc, p.Description)
	assert.Equal(t, 4, *p.AssignedTo)
	assert.Equal(t, "30", p.KRAWeight.String())
	assert.Equal(t, task.StatusPending, p.Status)

	*dto.AssignedTo = 9
	assert.Equal(t, 4, *tk.AssignedTo, "the form copy does not alias the task")
}

func TestToDTOCutsServerTimestamps(t *testing.T) {
	t.Parallel()

	due := "2025-03-01T00:00:00.000000Z"
	cutoff := "2025-02-20 17:00:00"
	start := "2025-01-06T00:00:00Z"
	tk := task.Task{Title: "Report", DueDate: &due, CutoffDate: &cutoff, TimelineStart: &start}

	dto := tk.ToDTO()
	dto.Title = "Quarterly report"
	errs, ok := dto.Ok()
	require.True(t, ok, "untouched dates stay valid: %v", errs)
	assert.Equal(t, "2025-03-01", dto.DueDate)
	assert.Equal(t, "2025-02-20", dto.CutoffDate)
	assert.Equal(t, "2025-01-06", dto.TimelineStart)
	assert.Empty(t, dto.TimelineEnd)
}

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	src := `
title: Submit grades
kra: KRA 2
kra_weight: 12.5
due_date: 2026-03-01
priority: high
assigned_to: 7
movs:
  - Class record
  - ""
`
	dto, err := task.DecodeYAML(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "Submit grades", dto.Title)
	assert.Equal(t, "12.5", dto.KRAWeight)
	assert.Equal(t, "2026-03-01", dto.DueDate)
	require.NotNil(t, dto.AssignedTo)
	assert.Equal(t, 7, *dto.AssignedTo)

	_, ok := dto.Ok()
	require.True(t, ok)
	assert.Equal(t, []string{"Class record"}, dto.Payload().MOVs)

	_, err = task.DecodeYAML(strings.NewReader("title: x\nunknown: 1\n"))
	require.Error(t, err)
}
