package models

import "gorm.io/gorm"

// ProjectMember joins a user to a project. The composite unique index makes
// re-adding an existing member a constraint violation rather than a silent
// duplicate row.
type ProjectMember struct {
	gorm.Model

	ProjectID uint `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_project_user"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
