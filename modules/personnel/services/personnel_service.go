package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
	"github.com/tasdonena/admin-console/modules/personnel/domain/aggregates/account"
	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/constants"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/listview"
)

const StatusFilter = "status"

const (
	msgLoadOfficersFailed = "Failed to load officers."
	msgReapproveFailed    = "Failed to approve personnel."
	msgDeactivateFailed   = "Failed to deactivate personnel."
	msgActivateFailed     = "Failed to activate personnel."
	msgDeleteFailed       = "Failed to remove personnel."
	msgDeactivated        = "Personnel account deactivated."
	msgActivated          = "Personnel account activated."
	msgDeleted            = "Personnel removed from directory."
)

// PersonnelService drives the personnel directory: every non-pending account.
type PersonnelService struct {
	repo   account.Repository
	list   *listview.Controller[user.User]
	runner *inflight.Runner
	log    *logrus.Logger
}

func NewPersonnelService(
	repo account.Repository,
	confirmer inflight.Confirmer,
	pageSize int,
	log *logrus.Logger,
) *PersonnelService {
	return &PersonnelService{
		repo: repo,
		list: listview.New[user.User](
			listview.WithSearch[user.User](account.SearchFields...),
			listview.WithFilter[user.User](StatusFilter, func(u user.User, v string) bool {
				return u.DisplayStatus() == v
			}, account.FilterAll),
			listview.WithPageSize[user.User](pageSize),
		),
		runner: inflight.NewRunner(inflight.NewTracker("officers", true), confirmer, log),
		log:    log,
	}
}

func (s *PersonnelService) List() *listview.Controller[user.User] { return s.list }

func (s *PersonnelService) Busy() *inflight.Tracker { return s.runner.Tracker() }

func (s *PersonnelService) loadDirectory(ctx context.Context) ([]user.User, error) {
	users, err := s.repo.Officers(ctx)
	if err != nil {
		return nil, err
	}
	return account.DirectoryOnly(users), nil
}

// Load refetches the directory and returns to page 1.
func (s *PersonnelService) Load(ctx context.Context) error {
	if err := s.list.Reload(ctx, s.loadDirectory, true); err != nil {
		return &inflight.ActionError{
			Action:  "load",
			Message: apiclient.MessageOr(err, msgLoadOfficersFailed),
			Err:     err,
		}
	}
	return nil
}

func (s *PersonnelService) Stats() account.Stats {
	return account.ComputeStats(s.list.Records())
}

func (s *PersonnelService) Find(id int) (user.User, bool) {
	for _, u := range s.list.Records() {
		if u.ID == id {
			return u, true
		}
	}
	return user.User{}, false
}

// SetStatusFilter accepts one of account.StatusFilters.
func (s *PersonnelService) SetStatusFilter(value string) error {
	for _, f := range account.StatusFilters {
		if f == value {
			return s.list.SetFilter(StatusFilter, value)
		}
	}
	return fmt.Errorf("unknown status filter %q, want one of %v", value, account.StatusFilters)
}

// Reapprove approves a previously rejected account.
func (s *PersonnelService) Reapprove(ctx context.Context, u user.User) (inflight.Outcome, error) {
	return s.runner.Run(ctx, inflight.Action{
		Name:     "reapprove",
		EntityID: u.Key(),
		Prompt: &inflight.Prompt{
			Title:      "Approve personnel account?",
			Text:       fmt.Sprintf("This will allow %s to sign in and use the system.", u.Name),
			InputLabel: "Remarks (optional)",
		},
		Call: func(ctx context.Context, remarks string) error {
			return s.repo.Approve(ctx, u.ID, remarks)
		},
		Refresh:        s.Load,
		SuccessMessage: fmt.Sprintf("%s has been approved.", u.Name),
		FailureMessage: msgReapproveFailed,
	})
}

func (s *PersonnelService) Deactivate(ctx context.Context, u user.User) (inflight.Outcome, error) {
	return s.runner.Run(ctx, inflight.Action{
		Name:     "deactivate",
		EntityID: u.Key(),
		Prompt: &inflight.Prompt{
			Title:      "Deactivate personnel account?",
			Text:       fmt.Sprintf("This will prevent %s from signing in until the account is activated again.", u.Name),
			InputLabel: "Reason (optional)",
		},
		Call: func(ctx context.Context, reason string) error {
			return s.repo.Deactivate(ctx, u.ID, reason)
		},
		Refresh:        s.Load,
		SuccessMessage: msgDeactivated,
		FailureMessage: msgDeactivateFailed,
	})
}

func (s *PersonnelService) Activate(ctx context.Context, u user.User) (inflight.Outcome, error) {
	return s.runner.Run(ctx, inflight.Action{
		Name:     "activate",
		EntityID: u.Key(),
		Prompt: &inflight.Prompt{
			Title: "Activate personnel account?",
			Text:  fmt.Sprintf("This will allow %s to sign in again.", u.Name),
		},
		Call: func(ctx context.Context, _ string) error {
			return s.repo.Activate(ctx, u.ID)
		},
		Refresh:        s.Load,
		SuccessMessage: msgActivated,
		FailureMessage: msgActivateFailed,
	})
}

// Delete removes the account once the confirmation word is typed exactly.
func (s *PersonnelService) Delete(ctx context.Context, u user.User) (inflight.Outcome, error) {
	return s.runner.Run(ctx, inflight.Action{
		Name:     "delete",
		EntityID: u.Key(),
		Prompt: &inflight.Prompt{
			Title:       "Remove personnel?",
			Text:        fmt.Sprintf("This permanently removes %s from the directory.", u.Name),
			InputLabel:  fmt.Sprintf("Type %s to confirm", constants.DeleteConfirmWord),
			RequireWord: constants.DeleteConfirmWord,
		},
		Call: func(ctx context.Context, _ string) error {
			return s.repo.Delete(ctx, u.ID)
		},
		Refresh:        s.Load,
		SuccessMessage: msgDeleted,
		FailureMessage: msgDeleteFailed,
	})
}
