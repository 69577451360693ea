package persistence

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	corepersistence "github.com/tasdonena/admin-console/modules/core/infrastructure/persistence"
	"github.com/tasdonena/admin-console/modules/personnel/domain/aggregates/account"
)

const (
	pendingUsersEndpoint = "/admin/pending-users"
	officersEndpoint     = "/admin/officers"
	userEndpoint         = "/admin/users/%d"
	approveEndpoint      = "/admin/users/%d/approve"
	rejectEndpoint       = "/admin/users/%d/reject"
	deactivateEndpoint   = "/admin/users/%d/deactivate"
	activateEndpoint     = "/admin/users/%d/activate"
)

type AccountRepository struct {
	api corepersistence.API
}

func NewAccountRepository(api corepersistence.API) account.Repository {
	return &AccountRepository{api: api}
}

func (r *AccountRepository) PendingUsers(ctx context.Context) ([]user.User, error) {
	var env struct {
		Users []user.User `json:"users"`
	}
	if err := r.api.Get(ctx, pendingUsersEndpoint, &env); err != nil {
		return nil, errors.Wrap(err, "list pending users")
	}
	return env.Users, nil
}

func (r *AccountRepository) Officers(ctx context.Context) ([]user.User, error) {
	var env struct {
		Officers []user.User `json:"officers"`
	}
	if err := r.api.Get(ctx, officersEndpoint, &env); err != nil {
		return nil, errors.Wrap(err, "list officers")
	}
	return env.Officers, nil
}

func (r *AccountRepository) Approve(ctx context.Context, id int, remarks string) error {
	body := map[string]string{"remarks": remarks}
	return errors.Wrapf(r.api.Post(ctx, fmt.Sprintf(approveEndpoint, id), body, nil), "approve user %d", id)
}

func (r *AccountRepository) Reject(ctx context.Context, id int, reason string) error {
	body := map[string]string{"reason": reason}
	return errors.Wrapf(r.api.Post(ctx, fmt.Sprintf(rejectEndpoint, id), body, nil), "reject user %d", id)
}

func (r *AccountRepository) Deactivate(ctx context.Context, id int, reason string) error {
	body := map[string]string{"reason": reason}
	return errors.Wrapf(r.api.Post(ctx, fmt.Sprintf(deactivateEndpoint, id), body, nil), "deactivate user %d", id)
}

func (r *AccountRepository) Activate(ctx context.Context, id int) error {
	return errors.Wrapf(r.api.Post(ctx, fmt.Sprintf(activateEndpoint, id), nil, nil), "activate user %d", id)
}

func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	return errors.Wrapf(r.api.Delete(ctx, fmt.Sprintf(userEndpoint, id), nil), "delete user %d", id)
}
