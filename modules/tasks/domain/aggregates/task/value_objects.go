package task

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Label() string {
	if p == "" {
		p = PriorityMedium
	}
	return cases.Title(language.English).String(string(p))
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func NewStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Label renders the status the way the task list shows it.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case "":
		return string(StatusPending)
	}
	return strings.ReplaceAll(string(s), "_", " ")
}

// Weight is a KRA weight with two-decimal precision. It encodes as a bare
// JSON number.
type Weight struct {
	decimal.Decimal
}

func NewWeight(d decimal.Decimal) *Weight {
	return &Weight{Decimal: d.Round(2)}
}

func (w Weight) MarshalJSON() ([]byte, error) {
	return []byte(w.Decimal.String()), nil
}
