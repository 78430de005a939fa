package models

import "time"

// StarterPlanTemplate is the stored, editable task breakdown applied to new
// projects. The milestone percentages are configuration, not an algorithm:
// each milestone lands at Percent% of the today→due-date span.
type StarterPlanTemplate struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Phases      []StarterPhase `json:"phases"`
	UpdatedByID *int64         `json:"updated_by_id,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type StarterPhase struct {
	Title      string             `json:"title"`
	Priority   TaskPriority       `json:"priority"`
	Milestones []StarterMilestone `json:"milestones"`
}

type StarterMilestone struct {
	Title   string `json:"title"`
	Percent int    `json:"percent"` // 0..100 of the plan span
}
