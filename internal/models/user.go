package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Profile fields, all optional
	Department   string
	Organization string
	Location     string
	Shade        string // avatar display shade, e.g. "indigo"

	// Relationships
	LedProjects   []Project       `gorm:"foreignKey:LeadID"`
	Memberships   []ProjectMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTasks []Task          `gorm:"foreignKey:AssigneeID"`
	CreatedTasks  []Task          `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
