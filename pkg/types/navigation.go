package types

// NavigationItem is one entry of the console navigation.
type NavigationItem struct {
	Heading   string
	Name      string
	Href      string
	AdminOnly bool
	// BadgeKey names a counter rendered next to the item, if any.
	BadgeKey string
}

func (n NavigationItem) Visible(role string) bool {
	return !n.AdminOnly || role == "admin"
}
