package models

// DashboardCounts holds the totals shown on the landing view.
type DashboardCounts struct {
	Classes     int `json:"classes" db:"classes"`
	Students    int `json:"students" db:"students"`
	Assignments int `json:"assignments" db:"assignments"`
}
