package session

import (
	"context"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/registration"
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
)

// Repository is the remote side of the account flows.
type Repository interface {
	CurrentUser(ctx context.Context) (user.User, error)
	Login(ctx context.Context, email, password string) (token string, u user.User, err error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, dto registration.RegisterDTO) (RegisterResult, error)
	VerifyEmail(ctx context.Context, dto registration.VerifyEmailDTO) error
	ResendOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, dto registration.ResetPasswordDTO) error
}
