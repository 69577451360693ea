package services

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/tasdonena/admin-console/modules/personnel/domain/aggregates/account"
	"github.com/tasdonena/admin-console/pkg/eventbus"
)

const (
	PendingApprovalsTopic = "approvals.pending_count"
	badgeCap              = 99
)

// NotificationService broadcasts the pending approvals count to badge
// subscribers.
type NotificationService struct {
	topic *eventbus.Topic[account.PendingApprovalsChanged]
}

func NewNotificationService(log *logrus.Logger) *NotificationService {
	return &NotificationService{
		topic: eventbus.NewTopic[account.PendingApprovalsChanged](PendingApprovalsTopic, log),
	}
}

func (s *NotificationService) PublishPendingCount(count int) {
	s.topic.Publish(account.PendingApprovalsChanged{Count: count})
}

func (s *NotificationService) Subscribe(fn func(account.PendingApprovalsChanged)) func() {
	return s.topic.Subscribe(fn)
}

// PendingCount returns the last published count, false before the first fetch.
func (s *NotificationService) PendingCount() (int, bool) {
	ev, ok := s.topic.Last()
	return ev.Count, ok
}

// BadgeLabel renders a pending count for the navigation badge.
func BadgeLabel(count int) string {
	if count > badgeCap {
		return "99+"
	}
	return strconv.Itoa(count)
}

// Badge renders the current count, or an ellipsis before the first fetch.
func (s *NotificationService) Badge() string {
	count, ok := s.PendingCount()
	if !ok {
		return "…"
	}
	return BadgeLabel(count)
}
