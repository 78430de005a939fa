package services

import (
	"errors"

	"elfportal/internal/models"
)

// ErrInvalidTransition rejects unknown status/priority values on writes.
// Reads stay permissive: the sort keys rank unknown values last instead.
var ErrInvalidTransition = errors.New("unknown status or priority value")

func ValidStatus(s models.TaskStatus) bool {
	switch s {
	case models.StatusTodo, models.StatusInProgress, models.StatusBlocked, models.StatusDone:
		return true
	}
	return false
}

func ValidPriority(p models.TaskPriority) bool {
	switch p {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return true
	}
	return false
}
