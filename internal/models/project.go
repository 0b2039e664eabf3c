package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	// Abbreviation is the short uppercase project code used to build ticket
	// IDs. It is unique and immutable after creation.
	Abbreviation string `gorm:"uniqueIndex;not null"`
	LeadID       uint   `gorm:"not null;index"`
	// LastCreatedTaskID is the per-project ticket counter. It only moves
	// through the atomic increment in the tickets package.
	LastCreatedTaskID uint `gorm:"not null;default:0"`

	// Relationships
	Lead       User            `gorm:"foreignKey:LeadID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members    []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks      []Task          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Activities []Activity      `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
