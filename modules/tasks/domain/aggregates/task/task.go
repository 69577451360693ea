// Package task holds the task aggregate, its form payload and the rules
// the task form applies before submitting.
package task

import (
	"context"
	"strconv"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/pkg/constants"
)

const AllOfficersLabel = "All officers"

type Assignee struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Task struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	MFO           *string   `json:"mfo"`
	KRA           *string   `json:"kra"`
	KRAWeight     *Weight   `json:"kra_weight"`
	Objective     *string   `json:"objective"`
	MOVs          []string  `json:"movs"`
	DueDate       *string   `json:"due_date"`
	CutoffDate    *string   `json:"cutoff_date"`
	TimelineStart *string   `json:"timeline_start"`
	TimelineEnd   *string   `json:"timeline_end"`
	AssignedTo    *int      `json:"assigned_to"`
	Assignee      *Assignee `json:"assignee,omitempty"`
	Priority      Priority  `json:"priority"`
	Status        Status    `json:"status"`
}

func (t Task) Key() string { return strconv.Itoa(t.ID) }

func (t Task) AssigneeLabel() string {
	switch {
	case t.Assignee != nil && t.Assignee.Name != "":
		return t.Assignee.Name
	case t.AssignedTo != nil:
		return "#" + strconv.Itoa(*t.AssignedTo)
	}
	return AllOfficersLabel
}

// ToDTO turns a stored task back into form input, as the edit form does.
// Server dates arrive as timestamps and are cut to the date.
func (t Task) ToDTO() TaskDTO {
	d := TaskDTO{
		Title:         t.Title,
		Description:   deref(t.Description),
		MFO:           deref(t.MFO),
		KRA:           deref(t.KRA),
		Objective:     deref(t.Objective),
		DueDate:       constants.DatePart(deref(t.DueDate)),
		CutoffDate:    constants.DatePart(deref(t.CutoffDate)),
		TimelineStart: constants.DatePart(deref(t.TimelineStart)),
		TimelineEnd:   constants.DatePart(deref(t.TimelineEnd)),
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		MOVs:          append([]string(nil), t.MOVs...),
	}
	if t.KRAWeight != nil {
		d.KRAWeight = t.KRAWeight.String()
	}
	if t.AssignedTo != nil {
		id := *t.AssignedTo
		d.AssignedTo = &id
	}
	return d
}

type Repository interface {
	List(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, p Payload) (Task, error)
	Update(ctx context.Context, id int, p Payload) (Task, error)
	Delete(ctx context.Context, id int) error
	AssignableOfficers(ctx context.Context) ([]user.User, error)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
