package personnel

import "github.com/tasdonena/admin-console/pkg/types"

// PendingApprovalsBadge is the badge key fed by the notification service.
const PendingApprovalsBadge = "pending_approvals"

var AccountApprovalsLink = types.NavigationItem{
	Heading:   "User management",
	Name:      "Account approvals",
	Href:      "/account-approvals",
	AdminOnly: true,
	BadgeKey:  PendingApprovalsBadge,
}

var PersonnelLink = types.NavigationItem{
	Heading:   "User management",
	Name:      "Personnel",
	Href:      "/officers",
	AdminOnly: true,
}

var NavItems = []types.NavigationItem{
	AccountApprovalsLink,
	PersonnelLink,
}
