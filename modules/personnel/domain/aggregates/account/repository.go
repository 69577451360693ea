package account

import (
	"context"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
)

// Repository covers the admin user-management endpoints.
type Repository interface {
	PendingUsers(ctx context.Context) ([]user.User, error)
	Officers(ctx context.Context) ([]user.User, error)
	Approve(ctx context.Context, id int, remarks string) error
	Reject(ctx context.Context, id int, reason string) error
	Deactivate(ctx context.Context, id int, reason string) error
	Activate(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}
