package models

import "time"

// UserStatus describes the registration lifecycle of an account.
type UserStatus string

const (
	// UserStatusActive marks a fully registered account.
	UserStatusActive UserStatus = "active"

	// UserStatusPending marks an account authenticated via EDS whose
	// registration profile has not been completed yet.
	UserStatusPending UserStatus = "pending"

	// UserStatusInactive marks a deactivated account.
	UserStatusInactive UserStatus = "inactive"
)

// UserRole determines what a user is allowed to do.
type UserRole string

const (
	RoleEmployee      UserRole = "employee"
	RoleSupervisor    UserRole = "supervisor"
	RoleAdministrator UserRole = "administrator"
)

// Valid reports whether the role is one of the known role values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleEmployee, RoleSupervisor, RoleAdministrator:
		return true
	}
	return false
}

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Email is the unique address used for password-based authentication.
	// Empty for EDS-only accounts that have not completed registration.
	Email string `json:"email"`

	// PasswordHash stores the argon2id PHC string of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// IIN is the 12-character national identification number extracted
	// from an EDS certificate. Email-registered accounts get a generated
	// pseudo-IIN instead.
	IIN string `json:"iin,omitempty"`

	// FullName is the display name of the user.
	FullName string `json:"full_name"`

	Phone        string `json:"phone_number,omitempty"`
	Organization string `json:"organization,omitempty"`
	Position     string `json:"position,omitempty"`

	// Active indicates whether the account may authenticate at all.
	Active bool `json:"is_active"`

	// Status tracks the registration lifecycle, see UserStatus.
	Status UserStatus `json:"status"`

	// Role determines authorization level, see UserRole.
	Role UserRole `json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// UserUpdate carries a partial profile update. Nil fields are left unchanged.
type UserUpdate struct {
	Email        *string `json:"email"`
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone_number"`
	Organization *string `json:"organization"`
	Position     *string `json:"position"`

	// Password, when set, is the new plain-text password to be hashed
	// by the service layer before storage.
	Password *string `json:"password"`

	// Status is set by the service layer (registration completion); it is
	// never accepted from a request body.
	Status *UserStatus `json:"-"`
}
