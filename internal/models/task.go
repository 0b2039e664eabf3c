package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	// TicketID is the human-readable identifier ("ABBREV-N"), immutable once set.
	TicketID   string `gorm:"not null;index"`
	Status     string `gorm:"not null;default:TODO"` // "TODO", "IN PROGRESS", "DONE"
	Priority   string `gorm:"not null;default:LOW"`  // "LOW", "MEDIUM", "HIGH"
	ProjectID  uint   `gorm:"not null;index"`
	CreatorID  uint   `gorm:"not null;index"`
	AssigneeID *uint  `gorm:"index"`
	StartDate  *time.Time
	EndDate    *time.Time

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator  User    `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
