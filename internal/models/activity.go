package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is one entry in a project's activity feed, recorded after every
// successful mutation on the project or its tasks.
type Activity struct {
	gorm.Model

	ProjectID uint           `gorm:"not null;index"`
	ActorID   uint           `gorm:"not null;index"`
	Action    string         `gorm:"not null"` // e.g. "task.created", "project.title_updated"
	Payload   datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Actor   User    `gorm:"foreignKey:ActorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
