package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wI2L/jsondiff"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/modules/tasks/domain/aggregates/task"
	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/listview"
)

const (
	StatusFilter = "status"
	KRAFilter    = "kra"
)

const (
	msgLoadTasksFailed  = "Failed to load tasks."
	msgCreateFailed     = "Failed to create task."
	msgUpdateFailed     = "Failed to update task."
	msgDeleteFailed     = "Failed to delete task."
	msgCreated          = "Task created successfully."
	msgUpdated          = "Task updated successfully."
	msgDeleted          = "Task deleted successfully."
	newTaskKey          = "new"
	statusFilterAllowed = "all, pending, in_progress, completed, cancelled"
)

var searchFields = []listview.Field[task.Task]{
	func(t task.Task) string { return t.Title },
	func(t task.Task) string { return deref(t.Description) },
	func(t task.Task) string { return deref(t.MFO) },
	func(t task.Task) string { return deref(t.KRA) },
	func(t task.Task) string { return deref(t.Objective) },
}

type TaskService struct {
	repo   task.Repository
	list   *listview.Controller[task.Task]
	runner *inflight.Runner
	log    *logrus.Logger
}

func NewTaskService(repo task.Repository, confirmer inflight.Confirmer, pageSize int, log *logrus.Logger) *TaskService {
	return &TaskService{
		repo: repo,
		list: listview.New[task.Task](
			listview.WithSearch[task.Task](searchFields...),
			listview.WithFilter[task.Task](StatusFilter, func(t task.Task, v string) bool {
				return string(t.Status) == v
			}, listview.AllFilter),
			listview.WithFilter[task.Task](KRAFilter, func(t task.Task, v string) bool {
				return t.KRA != nil && listview.ContainsFold(*t.KRA, v)
			}, ""),
			listview.WithPageSize[task.Task](pageSize),
		),
		runner: inflight.NewRunner(inflight.NewTracker("tasks", true), confirmer, log),
		log:    log,
	}
}

func (s *TaskService) List() *listview.Controller[task.Task] { return s.list }

func (s *TaskService) Busy() *inflight.Tracker { return s.runner.Tracker() }

// Load refetches every task. The current page is kept, clamped to the new
// page count.
func (s *TaskService) Load(ctx context.Context) error {
	if err := s.list.Reload(ctx, s.repo.List, false); err != nil {
		return &inflight.ActionError{
			Action:  "load",
			Message: apiclient.MessageOr(err, msgLoadTasksFailed),
			Err:     err,
		}
	}
	return nil
}

func (s *TaskService) Find(id int) (task.Task, bool) {
	for _, t := range s.list.Records() {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

func (s *TaskService) SetStatusFilter(value string) error {
	if value != listview.AllFilter {
		if _, ok := task.NewStatus(value); !ok {
			return fmt.Errorf("unknown task status %q, want one of %s", value, statusFilterAllowed)
		}
	}
	return s.list.SetFilter(StatusFilter, value)
}

func (s *TaskService) SetKRAFilter(value string) error {
	return s.list.SetFilter(KRAFilter, strings.TrimSpace(value))
}

// Officers lists who a task can be assigned to. A failed fetch is logged
// and yields an empty list.
func (s *TaskService) Officers(ctx context.Context) []user.User {
	officers, err := s.repo.AssignableOfficers(ctx)
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).Warn("tasks: assignable officers unavailable")
		}
		return []user.User{}
	}
	return officers
}

func (s *TaskService) ResolveAssignee(ctx context.Context, ref string) (*int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "all") {
		return nil, nil
	}
	return ResolveAssignee(s.Officers(ctx), ref)
}

func (s *TaskService) Create(ctx context.Context, dto task.TaskDTO) (inflight.Outcome, error) {
	if errs, ok := dto.Ok(); !ok {
		return inflight.Outcome{}, errs
	}
	payload := dto.Payload()
	return s.runner.Run(ctx, inflight.Action{
		Name:     "create task",
		EntityID: newTaskKey,
		Call: func(ctx context.Context, _ string) error {
			_, err := s.repo.Create(ctx, payload)
			return err
		},
		Refresh:        s.Load,
		SuccessMessage: msgCreated,
		FailureMessage: msgCreateFailed,
	})
}

func (s *TaskService) Update(ctx context.Context, t task.Task, dto task.TaskDTO) (inflight.Outcome, error) {
	if errs, ok := dto.Ok(); !ok {
		return inflight.Outcome{}, errs
	}
	payload := dto.Payload()
	return s.runner.Run(ctx, inflight.Action{
		Name:     "update task",
		EntityID: t.Key(),
		Call: func(ctx context.Context, _ string) error {
			_, err := s.repo.Update(ctx, t.ID, payload)
			return err
		},
		Refresh:        s.Load,
		SuccessMessage: msgUpdated,
		FailureMessage: msgUpdateFailed,
	})
}

// Diff returns the JSON Patch that turns the stored task's payload into
// the one dto would submit. Nothing is sent.
func (s *TaskService) Diff(t task.Task, dto task.TaskDTO) (jsondiff.Patch, error) {
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}
	current := t.ToDTO()
	return jsondiff.Compare(current.Payload(), dto.Payload())
}

func (s *TaskService) Delete(ctx context.Context, t task.Task) (inflight.Outcome, error) {
	return s.runner.Run(ctx, inflight.Action{
		Name:     "delete task",
		EntityID: t.Key(),
		Prompt: &inflight.Prompt{
			Title: "Delete task?",
			Text:  fmt.Sprintf("%q will be permanently deleted.", t.Title),
		},
		Call: func(ctx context.Context, _ string) error {
			return s.repo.Delete(ctx, t.ID)
		},
		Refresh:        s.Load,
		SuccessMessage: msgDeleted,
		FailureMessage: msgDeleteFailed,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
