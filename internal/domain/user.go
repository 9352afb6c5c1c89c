package domain

import "time"

// User roles. Staff members review applications; applicants submit them.
const (
	RoleApplicant = "applicant"
	RoleStaff     = "staff"
)

type User struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`

	Birthdate   *time.Time `json:"birthdate,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	PostalCode  string     `json:"postal_code,omitempty"`
	City        string     `json:"city,omitempty"`
	Country     string     `json:"country,omitempty"`
	SchoolStage string     `json:"school_stage,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCompleteProfile reports whether the profile part of an application is
// filled in. Validating an application additionally requires answers to the
// edition's finally-required questions.
func (u *User) HasCompleteProfile() bool {
	return u.FirstName != "" &&
		u.LastName != "" &&
		u.Email != "" &&
		u.Birthdate != nil
}

// IsStaff reports whether the user may review applications.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
