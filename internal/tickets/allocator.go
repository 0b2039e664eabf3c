package tickets

import (
	"errors"
	"fmt"

	"github.com/taskdeck-dev/taskdeck/internal/models"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// Allocate advances a project's ticket counter and returns the next ticket
// string ("ABBREV-N"). The increment is a single conditional UPDATE executed
// inside the caller's transaction, and the counter is read back in that same
// transaction, so concurrent creations on one project are serialized by the
// data store and always mint distinct, strictly increasing tickets.
func Allocate(tx *gorm.DB, projectID uint) (string, error) {
	res := tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		UpdateColumn("last_created_task_id", gorm.Expr("last_created_task_id + 1"))

	if res.Error != nil {
		return "", res.Error
	}

	if res.RowsAffected == 0 {
		return "", ErrProjectNotFound
	}

	var project models.Project

	if err := tx.First(&project, projectID).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d", project.Abbreviation, project.LastCreatedTaskID), nil
}
