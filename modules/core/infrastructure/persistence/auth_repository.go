package persistence

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/registration"
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/session"
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/pkg/apiclient"
)

var ErrMissingToken = errors.New("login response carried no token")

const (
	currentUserEndpoint    = "/user"
	loginEndpoint          = "/login"
	logoutEndpoint         = "/logout"
	registerEndpoint       = "/register"
	verifyEmailEndpoint    = "/verify-email"
	resendOTPEndpoint      = "/resend-otp"
	forgotPasswordEndpoint = "/forgot-password"
	resetPasswordEndpoint  = "/reset-password"
)

// API is the subset of the HTTP client the repositories use.
type API interface {
	Get(ctx context.Context, endpoint string, out any) error
	Post(ctx context.Context, endpoint string, body, out any) error
	Put(ctx context.Context, endpoint string, body, out any) error
	Delete(ctx context.Context, endpoint string, out any) error
}

var _ API = (*apiclient.Client)(nil)

type AuthRepository struct {
	api API
}

func NewAuthRepository(api API) session.Repository {
	return &AuthRepository{api: api}
}

type userEnvelope struct {
	User user.User `json:"user"`
}

type loginEnvelope struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (r *AuthRepository) CurrentUser(ctx context.Context) (user.User, error) {
	var env userEnvelope
	if err := r.api.Get(ctx, currentUserEndpoint, &env); err != nil {
		return user.User{}, errors.Wrap(err, "get current user")
	}
	return env.User, nil
}

func (r *AuthRepository) Login(ctx context.Context, email, password string) (string, user.User, error) {
	var env loginEnvelope
	body := registration.LoginDTO{Email: email, Password: password}
	if err := r.api.Post(ctx, loginEndpoint, body, &env); err != nil {
		return "", user.User{}, errors.Wrap(err, "login")
	}
	if env.Token == "" {
		return "", user.User{}, ErrMissingToken
	}
	return env.Token, env.User, nil
}

func (r *AuthRepository) Logout(ctx context.Context) error {
	return errors.Wrap(r.api.Post(ctx, logoutEndpoint, nil, nil), "logout")
}

func (r *AuthRepository) Register(ctx context.Context, dto registration.RegisterDTO) (session.RegisterResult, error) {
	var res struct {
		Message string `json:"message"`
		Email   string `json:"email"`
	}
	if err := r.api.Post(ctx, registerEndpoint, dto, &res); err != nil {
		return session.RegisterResult{}, errors.Wrap(err, "register")
	}
	return session.RegisterResult{Success: true, Message: res.Message, Email: res.Email}, nil
}

func (r *AuthRepository) VerifyEmail(ctx context.Context, dto registration.VerifyEmailDTO) error {
	return errors.Wrap(r.api.Post(ctx, verifyEmailEndpoint, dto, nil), "verify email")
}

func (r *AuthRepository) ResendOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return errors.Wrap(r.api.Post(ctx, resendOTPEndpoint, body, nil), "resend otp")
}

func (r *AuthRepository) ForgotPassword(ctx context.Context, email string) error {
	body := registration.ForgotPasswordDTO{Email: email}
	return errors.Wrap(r.api.Post(ctx, forgotPasswordEndpoint, body, nil), "forgot password")
}

func (r *AuthRepository) ResetPassword(ctx context.Context, dto registration.ResetPasswordDTO) error {
	return errors.Wrap(r.api.Post(ctx, resetPasswordEndpoint, dto, nil), "reset password")
}
