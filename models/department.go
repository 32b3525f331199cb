package models

import "time"

// Department is an organisational unit that requests are routed to.
type Department struct {
	DepartmentID int64     `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Department model.
func (d Department) TableName() string {
	return "departments"
}
