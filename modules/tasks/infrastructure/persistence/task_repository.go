package persistence

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	corepersistence "github.com/tasdonena/admin-console/modules/core/infrastructure/persistence"
	"github.com/tasdonena/admin-console/modules/tasks/domain/aggregates/task"
)

const (
	tasksEndpoint             = "/admin/tasks"
	taskEndpoint              = "/admin/tasks/%d"
	assignableOfficerEndpoint = "/admin/tasks/officers"
)

type TaskRepository struct {
	api corepersistence.API
}

func NewTaskRepository(api corepersistence.API) task.Repository {
	return &TaskRepository{api: api}
}

type taskEnvelope struct {
	Task *task.Task `json:"task"`
}

func (r *TaskRepository) List(ctx context.Context) ([]task.Task, error) {
	var env struct {
		Tasks []task.Task `json:"tasks"`
	}
	if err := r.api.Get(ctx, tasksEndpoint, &env); err != nil {
		return nil, errors.Wrap(err, "list tasks")
	}
	return env.Tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, p task.Payload) (task.Task, error) {
	var env taskEnvelope
	if err := r.api.Post(ctx, tasksEndpoint, p, &env); err != nil {
		return task.Task{}, errors.Wrap(err, "create task")
	}
	if env.Task == nil {
		return task.Task{Title: p.Title}, nil
	}
	return *env.Task, nil
}

func (r *TaskRepository) Update(ctx context.Context, id int, p task.Payload) (task.Task, error) {
	var env taskEnvelope
	if err := r.api.Put(ctx, fmt.Sprintf(taskEndpoint, id), p, &env); err != nil {
		return task.Task{}, errors.Wrapf(err, "update task %d", id)
	}
	if env.Task == nil {
		return task.Task{ID: id, Title: p.Title}, nil
	}
	return *env.Task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	return errors.Wrapf(r.api.Delete(ctx, fmt.Sprintf(taskEndpoint, id), nil), "delete task %d", id)
}

func (r *TaskRepository) AssignableOfficers(ctx context.Context) ([]user.User, error) {
	var env struct {
		Officers []user.User `json:"officers"`
	}
	if err := r.api.Get(ctx, assignableOfficerEndpoint, &env); err != nil {
		return nil, errors.Wrap(err, "list assignable officers")
	}
	return env.Officers, nil
}
