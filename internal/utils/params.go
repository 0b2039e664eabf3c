package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetProjectID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "project_id", "Project")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "task_id", "Task")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "user_id", "User")
}

func parseIDParam(ctx *gin.Context, param string, label string) (uint, error) {
	idStr := ctx.Param(param)

	if idStr == "" {
		return 0, errors.New(label + " ID not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + label + " ID")
	}

	return uint(id), nil
}
