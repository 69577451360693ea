package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/modules/personnel/domain/aggregates/account"
	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/listview"
)

const (
	msgLoadPendingFailed = "Failed to load pending users."
	msgApproveFailed     = "Failed to approve user."
	msgRejectFailed      = "Failed to reject user."
	msgUserRejected      = "User rejected."
)

// ApprovalsService drives the pending-account queue.
type ApprovalsService struct {
	repo          account.Repository
	notifications *NotificationService
	list          *listview.Controller[user.User]
	runner        *inflight.Runner
	log           *logrus.Logger
}

func NewApprovalsService(
	repo account.Repository,
	notifications *NotificationService,
	confirmer inflight.Confirmer,
	pageSize int,
	log *logrus.Logger,
) *ApprovalsService {
	return &ApprovalsService{
		repo:          repo,
		notifications: notifications,
		list: listview.New[user.User](
			listview.WithSearch[user.User](account.SearchFields...),
			listview.WithPageSize[user.User](pageSize),
		),
		runner: inflight.NewRunner(inflight.NewTracker("pending-users", true), confirmer, log),
		log:    log,
	}
}

func (s *ApprovalsService) List() *listview.Controller[user.User] { return s.list }

func (s *ApprovalsService) Notifications() *NotificationService { return s.notifications }

func (s *ApprovalsService) Busy() *inflight.Tracker { return s.runner.Tracker() }

// Load refetches the queue, returns to page 1 and publishes the count. A
// failed fetch publishes zero.
func (s *ApprovalsService) Load(ctx context.Context) error {
	err := s.list.Reload(ctx, s.repo.PendingUsers, true)
	if err != nil {
		s.notifications.PublishPendingCount(0)
		return &inflight.ActionError{
			Action:  "load",
			Message: apiclient.MessageOr(err, msgLoadPendingFailed),
			Err:     err,
		}
	}
	s.notifications.PublishPendingCount(len(s.list.Records()))
	return nil
}

// Find returns the pending user with id from the last fetch.
func (s *ApprovalsService) Find(id int) (user.User, bool) {
	for _, u := range s.list.Records() {
		if u.ID == id {
			return u, true
		}
	}
	return user.User{}, false
}

func (s *ApprovalsService) Approve(ctx context.Context, u user.User) (inflight.Outcome, error) {
	return s.runner.Run(ctx, inflight.Action{
		Name:     "approve",
		EntityID: u.Key(),
		Prompt: &inflight.Prompt{
			Title:      "Approve personnel?",
			Text:       fmt.Sprintf("This will allow %s to sign in and use the system.", u.Name),
			InputLabel: "Remarks (optional)",
		},
		Call: func(ctx context.Context, remarks string) error {
			return s.repo.Approve(ctx, u.ID, remarks)
		},
		Refresh:        s.Load,
		SuccessMessage: fmt.Sprintf("%s has been approved.", u.Name),
		FailureMessage: msgApproveFailed,
	})
}

func (s *ApprovalsService) Reject(ctx context.Context, u user.User) (inflight.Outcome, error) {
	return s.runner.Run(ctx, inflight.Action{
		Name:     "reject",
		EntityID: u.Key(),
		Prompt: &inflight.Prompt{
			Title:      "Reject personnel?",
			Text:       fmt.Sprintf("This will prevent %s from signing in until approved again.", u.Name),
			InputLabel: "Reason (optional)",
		},
		Call: func(ctx context.Context, reason string) error {
			return s.repo.Reject(ctx, u.ID, reason)
		},
		Refresh:        s.Load,
		SuccessMessage: msgUserRejected,
		FailureMessage: msgRejectFailed,
	})
}
