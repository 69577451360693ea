package core

import "github.com/tasdonena/admin-console/pkg/types"

var DashboardLink = types.NavigationItem{
	Heading: "Core",
	Name:    "Dashboard",
	Href:    "/dashboard",
}

var NavItems = []types.NavigationItem{DashboardLink}
