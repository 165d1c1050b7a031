package model

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents an employee or administrator account.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string `json:"role" gorm:"size:50;not null;default:'user';index"`
	Designation  string `json:"designation,omitempty" gorm:"size:255"`
	Department   string `json:"department,omitempty" gorm:"size:255"`
	Contact      string `json:"contact,omitempty" gorm:"size:50"`
	ProfileImage string `json:"profile_image,omitempty" gorm:"size:512"`
	Status       string `json:"status" gorm:"size:20;not null;default:'active'"`

	ResetPasswordToken   *string    `json:"-" gorm:"size:64;index"`
	ResetPasswordExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
