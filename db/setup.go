package db

import (
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Activity{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
