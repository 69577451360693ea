package services

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/registration"
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/session"
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/eventbus"
	"github.com/tasdonena/admin-console/pkg/tokenstore"
)

const SessionTopic = "session.changed"

// SessionService owns the signed-in state. Transitions are published on its
// topic after the state is updated.
type SessionService struct {
	repo  session.Repository
	store tokenstore.Store
	topic *eventbus.Topic[session.Snapshot]
	log   *logrus.Logger

	mu    sync.RWMutex
	state session.Snapshot
}

func NewSessionService(
	repo session.Repository,
	store tokenstore.Store,
	topic *eventbus.Topic[session.Snapshot],
	log *logrus.Logger,
) *SessionService {
	if topic == nil {
		topic = eventbus.NewTopic[session.Snapshot](SessionTopic, log)
	}
	return &SessionService{repo: repo, store: store, topic: topic, log: log}
}

func (s *SessionService) Snapshot() session.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SessionService) Subscribe(fn func(session.Snapshot)) func() {
	return s.topic.Subscribe(fn)
}

func (s *SessionService) set(next session.Snapshot) session.Snapshot {
	next.Initialized = true
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	s.topic.Publish(next)
	return next
}

// settleAnonymous moves a session that is still initializing to signed out.
// An established session is left as it is.
func (s *SessionService) settleAnonymous() {
	s.mu.RLock()
	initialized := s.state.Initialized
	s.mu.RUnlock()
	if !initialized {
		s.set(session.Snapshot{})
	}
}

// Init resolves the persisted token into a user. Any lookup failure signs
// the session out and forgets the token.
func (s *SessionService) Init(ctx context.Context) session.Snapshot {
	token, err := s.store.Load()
	if err != nil {
		s.log.WithError(err).Warn("session: failed to read persisted token")
		token = ""
	}
	if token == "" {
		return s.set(session.Snapshot{})
	}

	u, err := s.repo.CurrentUser(ctx)
	if err != nil {
		s.log.WithError(err).Info("session: persisted token rejected, signing out")
		if cErr := s.store.Clear(); cErr != nil {
			s.log.WithError(cErr).Warn("session: failed to clear token")
		}
		return s.set(session.Snapshot{})
	}
	return s.set(session.Snapshot{Token: token, User: &u})
}

func (s *SessionService) Login(ctx context.Context, email, password string) session.LoginResult {
	dto := registration.LoginDTO{Email: email, Password: password}
	if errs, ok := dto.Ok(); !ok {
		return session.LoginResult{Error: errs.First([]string{"email", "password"})}
	}

	token, u, err := s.repo.Login(ctx, dto.Email, dto.Password)
	if err != nil {
		s.log.WithError(err).Infof("session: login refused for %s", dto.Email)
		if !apiclient.IsTransport(err) {
			s.settleAnonymous()
		}
		return session.LoginResult{Error: LoginErrorMessage(err), Status: BusinessStatus(err)}
	}
	if err := s.store.Save(token); err != nil {
		s.log.WithError(err).Error("session: failed to persist token")
		s.settleAnonymous()
		return session.LoginResult{Error: "Unable to save the session: " + err.Error()}
	}
	s.set(session.Snapshot{Token: token, User: &u})
	return session.LoginResult{Success: true, User: &u}
}

// Logout tells the API best-effort and always clears local state.
func (s *SessionService) Logout(ctx context.Context) {
	if err := s.repo.Logout(ctx); err != nil {
		s.log.WithError(err).Debug("session: logout call failed, clearing locally")
	}
	if err := s.store.Clear(); err != nil {
		s.log.WithError(err).Warn("session: failed to clear token")
	}
	s.set(session.Snapshot{})
}

// SetAuth installs token and u, or clears both when token is empty.
func (s *SessionService) SetAuth(token string, u *user.User) error {
	if token == "" {
		if err := s.store.Clear(); err != nil {
			return errors.Wrap(err, "clear token")
		}
		s.set(session.Snapshot{})
		return nil
	}
	if err := s.store.Save(token); err != nil {
		return errors.Wrap(err, "save token")
	}
	s.set(session.Snapshot{Token: token, User: u})
	return nil
}

// Register validates dto locally and submits it. Validation failures are
// returned as serrors.ValidationErrors.
func (s *SessionService) Register(ctx context.Context, dto registration.RegisterDTO) (session.RegisterResult, error) {
	if errs, ok := dto.Ok(); !ok {
		return session.RegisterResult{}, errs
	}
	res, err := s.repo.Register(ctx, dto)
	if err != nil {
		return session.RegisterResult{}, err
	}
	if res.Email == "" {
		res.Email = dto.Email
	}
	return res, nil
}

func (s *SessionService) VerifyEmail(ctx context.Context, email, otp string) error {
	dto := registration.VerifyEmailDTO{Email: email, OTP: otp}
	if errs, ok := dto.Ok(); !ok {
		return errs
	}
	return s.repo.VerifyEmail(ctx, dto)
}

func (s *SessionService) ResendOTP(ctx context.Context, email string) error {
	dto := registration.ForgotPasswordDTO{Email: email}
	if errs, ok := dto.Ok(); !ok {
		return errs
	}
	return s.repo.ResendOTP(ctx, dto.Email)
}

func (s *SessionService) ForgotPassword(ctx context.Context, email string) error {
	dto := registration.ForgotPasswordDTO{Email: email}
	if errs, ok := dto.Ok(); !ok {
		return errs
	}
	return s.repo.ForgotPassword(ctx, dto.Email)
}

func (s *SessionService) ResetPassword(ctx context.Context, dto registration.ResetPasswordDTO) error {
	if errs, ok := dto.Ok(); !ok {
		return errs
	}
	return s.repo.ResetPassword(ctx, dto)
}
