package model

import "time"

// ModuleStatus represents the progress state of a module.
type ModuleStatus string

const (
	ModuleStatusPending    ModuleStatus = "Pending"
	ModuleStatusInProgress ModuleStatus = "In Progress"
	ModuleStatusCompleted  ModuleStatus = "Completed"
)

// ValidModuleStatus reports whether s is one of the known module statuses.
func ValidModuleStatus(s ModuleStatus) bool {
	switch s {
	case ModuleStatusPending, ModuleStatusInProgress, ModuleStatusCompleted:
		return true
	}
	return false
}

// Module is a work item belonging to exactly one project and assigned to
// exactly one user. ProjectID is immutable after creation; deleting the
// parent project deletes its modules.
type Module struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	ProjectID     uint         `json:"project_id" gorm:"not null;index"`
	Title         string       `json:"title" gorm:"size:255;not null"`
	Description   string       `json:"description,omitempty" gorm:"type:text"`
	AssignedTo    uint         `json:"assigned_to" gorm:"not null;index"`
	Status        ModuleStatus `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	ProgressNotes string       `json:"progress_notes,omitempty" gorm:"type:text"`
	StartDate     *time.Time   `json:"start_date,omitempty"`
	EndDate       *time.Time   `json:"end_date,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// Relations
	Project  *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Assignee *User    `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo"`
}
