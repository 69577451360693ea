package task

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tasdonena/admin-console/pkg/constants"
)

// taskFile mirrors TaskDTO for YAML input. Scalars are decoded loosely so
// that unquoted numbers and dates are accepted.
type taskFile struct {
	Title         any      `yaml:"title"`
	Description   any      `yaml:"description"`
	MFO           any      `yaml:"mfo"`
	KRA           any      `yaml:"kra"`
	KRAWeight     any      `yaml:"kra_weight"`
	Objective     any      `yaml:"objective"`
	MOVs          []string `yaml:"movs"`
	DueDate       any      `yaml:"due_date"`
	CutoffDate    any      `yaml:"cutoff_date"`
	TimelineStart any      `yaml:"timeline_start"`
	TimelineEnd   any      `yaml:"timeline_end"`
	AssignedTo    *int     `yaml:"assigned_to"`
	Priority      any      `yaml:"priority"`
	Status        any      `yaml:"status"`
}

// DecodeYAML reads one task form from r.
func DecodeYAML(r io.Reader) (TaskDTO, error) {
	var f taskFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return TaskDTO{}, errors.Wrap(err, "decode task yaml")
	}
	return TaskDTO{
		Title:         scalar(f.Title),
		Description:   scalar(f.Description),
		MFO:           scalar(f.MFO),
		KRA:           scalar(f.KRA),
		KRAWeight:     scalar(f.KRAWeight),
		Objective:     scalar(f.Objective),
		MOVs:          f.MOVs,
		DueDate:       scalar(f.DueDate),
		CutoffDate:    scalar(f.CutoffDate),
		TimelineStart: scalar(f.TimelineStart),
		TimelineEnd:   scalar(f.TimelineEnd),
		AssignedTo:    f.AssignedTo,
		Priority:      scalar(f.Priority),
		Status:        scalar(f.Status),
	}, nil
}

func LoadYAML(path string) (TaskDTO, error) {
	f, err := os.Open(path)
	if err != nil {
		return TaskDTO{}, errors.Wrap(err, "open task file")
	}
	defer f.Close()
	return DecodeYAML(f)
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(constants.DateLayout)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
