package model

import "time"

// ProjectStatus represents the delivery state of a project.
type ProjectStatus string

const (
	ProjectStatusNotStarted ProjectStatus = "Not Started"
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusCompleted  ProjectStatus = "Completed"
)

// ValidProjectStatus reports whether s is one of the known project statuses.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusNotStarted, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project represents a body of work owned by the admin who created it.
// CreatedBy is set once at creation and never changes.
type Project struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"size:255;not null"`
	Description string        `json:"description" gorm:"type:text;not null"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Status      ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'Not Started';index"`
	CreatedBy   uint          `json:"created_by" gorm:"not null;index"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Creator *User    `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:ProjectID"`
}
