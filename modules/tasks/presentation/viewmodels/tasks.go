package viewmodels

type TaskRow struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	KRA      string `json:"kra"`
	Weight   string `json:"kra_weight,omitempty"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
	Busy     bool   `json:"busy,omitempty"`
}

type TasksPage struct {
	Rows       []*TaskRow `json:"rows"`
	Query      string     `json:"query"`
	Status     string     `json:"status"`
	KRA        string     `json:"kra,omitempty"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	From       int        `json:"from"`
	To         int        `json:"to"`
	Filtered   int        `json:"filtered"`
	Total      int        `json:"total"`
	Empty      string     `json:"empty,omitempty"`
}
