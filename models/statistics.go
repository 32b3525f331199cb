package models

// CompletionRate summarises how many requests have been completed.
type CompletionRate struct {
	TotalRequests     int64 `json:"total_requests"`
	CompletedRequests int64 `json:"completed_requests"`

	// Rate is the percentage of completed requests, 0 when there are none.
	Rate float64 `json:"completion_rate"`
}

// DepartmentCount is the number of requests routed to one department.
type DepartmentCount struct {
	DepartmentID int64  `json:"id"`
	Name         string `json:"name"`
	RequestCount int64  `json:"request_count"`
}

// TypeCount is the number of requests of one request type.
type TypeCount struct {
	Type         RequestType `json:"type"`
	RequestCount int64       `json:"request_count"`
}

// CreatorCount identifies a user together with how many requests they created.
type CreatorCount struct {
	UserID       int64  `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email,omitempty"`
	RequestCount int64  `json:"request_count"`
}

// Statistics is the admin-only system usage report.
type Statistics struct {
	TotalRequests  int64             `json:"total_requests"`
	CompletionRate CompletionRate    `json:"completion_rate"`
	Departments    []DepartmentCount `json:"department_stats"`
	Types          []TypeCount       `json:"request_type_stats"`
	TopCreators    []CreatorCount    `json:"top_users"`
}
