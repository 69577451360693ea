package tasks

import "github.com/tasdonena/admin-console/pkg/types"

var TaskListLink = types.NavigationItem{
	Heading:   "Task management",
	Name:      "Task list",
	Href:      "/task-management",
	AdminOnly: true,
}

var CreateTaskLink = types.NavigationItem{
	Heading:   "Task management",
	Name:      "Create task",
	Href:      "/task-management/create",
	AdminOnly: true,
}

var NavItems = []types.NavigationItem{
	TaskListLink,
	CreateTaskLink,
}
