package task

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tasdonena/admin-console/pkg/serrors"
)

const (
	MsgTitleRequired = "Task title is required."
	MsgWeightNumber  = "KRA weight must be a number."
	MsgWeightRange   = "KRA weight must be between 0 and 100."
	MsgInvalidDate   = "Dates must use the YYYY-MM-DD format."
)

var (
	weightMin = decimal.Zero
	weightMax = decimal.NewFromInt(100)
)

// TaskDTO is the task form as typed by the user.
type TaskDTO struct {
	Title         string   `json:"title" yaml:"title" validate:"required"`
	Description   string   `json:"description" yaml:"description"`
	MFO           string   `json:"mfo" yaml:"mfo"`
	KRA           string   `json:"kra" yaml:"kra"`
	KRAWeight     string   `json:"kra_weight" yaml:"kra_weight"`
	Objective     string   `json:"objective" yaml:"objective"`
	MOVs          []string `json:"movs" yaml:"movs"`
	DueDate       string   `json:"due_date" yaml:"due_date" validate:"isodate"`
	CutoffDate    string   `json:"cutoff_date" yaml:"cutoff_date" validate:"isodate"`
	TimelineStart string   `json:"timeline_start" yaml:"timeline_start" validate:"isodate"`
	TimelineEnd   string   `json:"timeline_end" yaml:"timeline_end" validate:"isodate"`
	AssignedTo    *int     `json:"assigned_to" yaml:"assigned_to"`
	Priority      string   `json:"priority" yaml:"priority" validate:"omitempty,oneof=low medium high"`
	Status        string   `json:"status" yaml:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
}

// Payload is the JSON body of POST and PUT /admin/tasks. Nil pointers are
// sent as null.
type Payload struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	MFO           *string  `json:"mfo"`
	KRA           *string  `json:"kra"`
	KRAWeight     *Weight  `json:"kra_weight"`
	Objective     *string  `json:"objective"`
	MOVs          []string `json:"movs"`
	DueDate       *string  `json:"due_date"`
	CutoffDate    *string  `json:"cutoff_date"`
	AssignedTo    *int     `json:"assigned_to"`
	Priority      Priority `json:"priority"`
	TimelineStart *string  `json:"timeline_start"`
	TimelineEnd   *string  `json:"timeline_end"`
	Status        Status   `json:"status,omitempty"`
}

var taskOrder = []string{
	"title", "kra_weight", "priority", "status",
	"due_date", "cutoff_date", "timeline_start", "timeline_end",
}

func (d *TaskDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.KRAWeight = strings.TrimSpace(d.KRAWeight)
	d.DueDate = strings.TrimSpace(d.DueDate)
	d.CutoffDate = strings.TrimSpace(d.CutoffDate)
	d.TimelineStart = strings.TrimSpace(d.TimelineStart)
	d.TimelineEnd = strings.TrimSpace(d.TimelineEnd)
	d.Priority = strings.TrimSpace(d.Priority)
	d.Status = strings.TrimSpace(d.Status)
}

func (d *TaskDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.FromStruct(d, func(fe validator.FieldError) string {
		switch fe.Tag() {
		case "required":
			return MsgTitleRequired
		case "isodate":
			return MsgInvalidDate
		}
		return ""
	})
	if _, err := d.weight(); err != nil {
		if errs == nil {
			errs = serrors.ValidationErrors{}
		}
		errs["kra_weight"] = err.Error()
	}
	return errs, len(errs) == 0
}

func (d *TaskDTO) FirstError(errs serrors.ValidationErrors) string {
	return errs.First(taskOrder)
}

type weightError string

func (e weightError) Error() string { return string(e) }

func (d *TaskDTO) weight() (*Weight, error) {
	if d.KRAWeight == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(d.KRAWeight)
	if err != nil {
		return nil, weightError(MsgWeightNumber)
	}
	if v.LessThan(weightMin) || v.GreaterThan(weightMax) {
		return nil, weightError(MsgWeightRange)
	}
	return NewWeight(v), nil
}

// Payload applies the form's submission rules. Call Ok first; an invalid
// weight is dropped here.
func (d *TaskDTO) Payload() Payload {
	d.Normalize()
	w, _ := d.weight()
	p := Payload{
		Title:         d.Title,
		Description:   optional(d.Description),
		MFO:           optional(d.MFO),
		KRA:           optional(d.KRA),
		KRAWeight:     w,
		Objective:     optional(d.Objective),
		MOVs:          PruneMOVs(d.MOVs),
		DueDate:       optional(d.DueDate),
		CutoffDate:    optional(d.CutoffDate),
		AssignedTo:    d.AssignedTo,
		Priority:      Priority(d.Priority),
		TimelineStart: optional(d.TimelineStart),
		TimelineEnd:   optional(d.TimelineEnd),
		Status:        Status(d.Status),
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	return p
}

// PruneMOVs drops entries that are blank after trimming and keeps the rest
// as typed. It returns nil when nothing is left.
func PruneMOVs(movs []string) []string {
	var out []string
	for _, m := range movs {
		if strings.TrimSpace(m) != "" {
			out = append(out, m)
		}
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
