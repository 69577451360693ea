package routing

import (
	"sort"
	"strings"
)

// RouteClass is the access level a console path requires.
type RouteClass string

const (
	RouteClassPublic        RouteClass = "public"
	RouteClassAuthenticated RouteClass = "authenticated"
	RouteClassAdmin         RouteClass = "admin"
)

type Rule struct {
	Prefix string
	Class  RouteClass
}

// ConsoleRules is the page table of the admin console.
var ConsoleRules = []Rule{
	{Prefix: LoginPath, Class: RouteClassPublic},
	{Prefix: "/register", Class: RouteClassPublic},
	{Prefix: "/verify-email", Class: RouteClassPublic},
	{Prefix: "/forgot-password", Class: RouteClassPublic},
	{Prefix: "/reset-password", Class: RouteClassPublic},
	{Prefix: DashboardPath, Class: RouteClassAuthenticated},
	{Prefix: "/account-approvals", Class: RouteClassAdmin},
	{Prefix: "/officers", Class: RouteClassAdmin},
	{Prefix: "/task-management", Class: RouteClassAdmin},
}

type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	copied := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		rule.Prefix = strings.TrimSpace(rule.Prefix)
		if rule.Prefix == "" {
			continue
		}
		copied = append(copied, rule)
	}

	sort.SliceStable(copied, func(i, j int) bool {
		return len(copied[i].Prefix) > len(copied[j].Prefix)
	})

	return &Classifier{
		rules: copied,
	}
}

// Console classifies the pages in ConsoleRules.
var Console = NewClassifier(ConsoleRules)

func (c *Classifier) Match(path string) (RouteClass, bool) {
	for _, rule := range c.rules {
		if HasPathPrefixOnBoundary(path, rule.Prefix) {
			return rule.Class, true
		}
	}
	return "", false
}

// ClassifyPath falls back to authenticated for paths no rule covers.
func (c *Classifier) ClassifyPath(path string) RouteClass {
	if class, ok := c.Match(path); ok {
		return class
	}
	return RouteClassAuthenticated
}

func (c *Classifier) GuardFor(path string) Guard {
	switch c.ClassifyPath(path) {
	case RouteClassPublic:
		return PublicOnly
	case RouteClassAdmin:
		return AdminOnly
	default:
		return AuthenticatedOnly
	}
}

func (c *Classifier) Decide(path string, s Session) Decision {
	return c.GuardFor(path)(s)
}

func HasPathPrefixOnBoundary(path, prefix string) bool {
	if prefix == "" {
		return false
	}

	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}

	if !strings.HasPrefix(path, prefix) {
		return false
	}

	if len(path) == len(prefix) {
		return true
	}

	if strings.HasSuffix(prefix, "/") {
		return true
	}

	return path[len(prefix)] == '/'
}
