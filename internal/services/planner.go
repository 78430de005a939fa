package services

import (
	"time"

	"elfportal/internal/models"
)

// PlannedTask is one generated starter-plan task before persistence.
type PlannedTask struct {
	Title      string
	Priority   models.TaskPriority
	DueDate    time.Time
	Milestones []PlannedTask
}

// GenerateStarterPlan spreads the template phases across the start→due span.
// Each milestone lands at its configured percent of the span, clamped to the
// due date; a phase's parent task is due with its last milestone. Dates are
// whole days, which keeps the plan readable on the board.
func GenerateStarterPlan(phases []models.StarterPhase, start, due time.Time) []PlannedTask {
	start = truncateDay(start)
	due = truncateDay(due)
	span := due.Sub(start)
	if span < 0 {
		span = 0
	}

	plan := make([]PlannedTask, 0, len(phases))
	for _, phase := range phases {
		parent := PlannedTask{
			Title:    phase.Title,
			Priority: phase.Priority,
			DueDate:  start,
		}
		if parent.Priority == "" {
			parent.Priority = models.PriorityMedium
		}
		for _, m := range phase.Milestones {
			date := milestoneDate(start, due, span, m.Percent)
			parent.Milestones = append(parent.Milestones, PlannedTask{
				Title:    m.Title,
				Priority: parent.Priority,
				DueDate:  date,
			})
			if date.After(parent.DueDate) {
				parent.DueDate = date
			}
		}
		plan = append(plan, parent)
	}
	return plan
}

func milestoneDate(start, due time.Time, span time.Duration, percent int) time.Time {
	if percent < 0 {
		percent = 0
	}
	date := truncateDay(start.Add(span * time.Duration(percent) / 100))
	if date.After(due) {
		return due
	}
	return date
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
