package models

import "time"

// RequestType is the category a request belongs to. The type decides which
// department the request is routed to at creation time.
type RequestType string

const (
	RequestTypeFinancial RequestType = "financial"
	RequestTypeHR        RequestType = "hr"
	RequestTypeIT        RequestType = "it"
	RequestTypeFacility  RequestType = "facility"
)

// Valid reports whether the type is one of the known request types.
func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeFinancial, RequestTypeHR, RequestTypeIT, RequestTypeFacility:
		return true
	}
	return false
}

// RequestStatus is the processing state of a request.
type RequestStatus string

const (
	RequestStatusNew       RequestStatus = "new"
	RequestStatusInProcess RequestStatus = "in_process"
	RequestStatusAwaiting  RequestStatus = "awaiting"
	RequestStatusCompleted RequestStatus = "completed"
)

// Valid reports whether the status is one of the known request statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusNew, RequestStatusInProcess, RequestStatusAwaiting, RequestStatusCompleted:
		return true
	}
	return false
}

// Request is a single help-desk ticket.
type Request struct {
	RequestID   int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        RequestType   `json:"request_type"`
	Urgent      bool          `json:"urgency"`
	Status      RequestStatus `json:"status"`

	CreatedByID  int64 `json:"created_by_id"`
	AssignedToID int64 `json:"assigned_to_id,omitempty"`
	DepartmentID int64 `json:"department_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Request model.
func (r Request) TableName() string {
	return "requests"
}

// RequestDetail is a Request together with its expanded relations,
// returned by the single-request endpoint.
type RequestDetail struct {
	Request

	CreatedBy  *User       `json:"created_by,omitempty"`
	AssignedTo *User       `json:"assigned_to,omitempty"`
	Department *Department `json:"department,omitempty"`
}

// RequestUpdate carries a partial request update. Nil fields are left
// unchanged; setting AssignedToID or DepartmentID to 0 clears the link.
type RequestUpdate struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Type         *RequestType   `json:"request_type"`
	Urgent       *bool          `json:"urgency"`
	Status       *RequestStatus `json:"status"`
	AssignedToID *int64         `json:"assigned_to_id"`
	DepartmentID *int64         `json:"department_id"`
}

// RequestFilter narrows a request listing. Zero values mean "no filter".
// Search matches title and description case-insensitively.
type RequestFilter struct {
	Status       RequestStatus
	Type         RequestType
	DepartmentID int64
	CreatedByID  int64
	Search       string

	Offset int
	Limit  int
}
