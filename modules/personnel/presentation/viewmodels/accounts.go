package viewmodels

type AccountRow struct {
	ID         int    `json:"id"`
	Initials   string `json:"initials"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
	Position   string `json:"position"`
	Division   string `json:"division"`
	School     string `json:"school_name"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Busy       bool   `json:"busy,omitempty"`
}

type AccountsPage struct {
	Rows       []*AccountRow `json:"rows"`
	Query      string        `json:"query"`
	Status     string        `json:"status,omitempty"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	From       int           `json:"from"`
	To         int           `json:"to"`
	Filtered   int           `json:"filtered"`
	Total      int           `json:"total"`
	Empty      string        `json:"empty,omitempty"`
}

type StatsCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Exact string `json:"exact"`
}
