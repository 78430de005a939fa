package services

import (
	"testing"
	"time"

	"elfportal/internal/models"
)

func testPhases() []models.StarterPhase {
	return []models.StarterPhase{
		{Title: "Kickoff and Discovery", Priority: models.PriorityHigh, Milestones: []models.StarterMilestone{
			{Title: "Kickoff session", Percent: 8},
			{Title: "Scope agreed", Percent: 20},
		}},
		{Title: "Solution Build and Validation", Priority: models.PriorityHigh, Milestones: []models.StarterMilestone{
			{Title: "First increment", Percent: 35},
			{Title: "Validation workshop", Percent: 62},
		}},
		{Title: "Rollout and Enablement", Priority: models.PriorityMedium, Milestones: []models.StarterMilestone{
			{Title: "Production rollout", Percent: 74},
			{Title: "Hypercare closed", Percent: 92},
		}},
		{Title: "Value Review and Scale Plan", Priority: models.PriorityMedium, Milestones: []models.StarterMilestone{
			{Title: "Value review", Percent: 96},
			{Title: "Scale plan", Percent: 100},
		}},
	}
}

func TestGenerateStarterPlanFortyFiveDaySpan(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.March, 1, 15, 30, 0, 0, time.UTC)
	due := start.AddDate(0, 0, 45)

	plan := GenerateStarterPlan(testPhases(), start, due)
	if len(plan) != 4 {
		t.Fatalf("phases: got %d, want 4", len(plan))
	}

	dueDay := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	prev := time.Time{}
	for _, phase := range plan {
		if phase.DueDate.Before(prev) {
			t.Errorf("phase %q due %v before previous phase due %v", phase.Title, phase.DueDate, prev)
		}
		prev = phase.DueDate
		if phase.DueDate.After(dueDay) {
			t.Errorf("phase %q due %v exceeds project due %v", phase.Title, phase.DueDate, dueDay)
		}
		for _, m := range phase.Milestones {
			if m.DueDate.After(dueDay) {
				t.Errorf("milestone %q due %v exceeds project due %v", m.Title, m.DueDate, dueDay)
			}
			if !m.DueDate.Equal(truncateDay(m.DueDate)) {
				t.Errorf("milestone %q due %v not truncated to a whole day", m.Title, m.DueDate)
			}
		}
	}

	last := plan[len(plan)-1]
	if !last.DueDate.Equal(dueDay) {
		t.Errorf("final phase (100%%) should land on the due date: got %v, want %v", last.DueDate, dueDay)
	}
}

func TestGenerateStarterPlanParentDueAtLastMilestone(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, 30)

	plan := GenerateStarterPlan(testPhases(), start, due)
	for _, phase := range plan {
		maxMilestone := time.Time{}
		for _, m := range phase.Milestones {
			if m.DueDate.After(maxMilestone) {
				maxMilestone = m.DueDate
			}
		}
		if !phase.DueDate.Equal(maxMilestone) {
			t.Errorf("phase %q due %v, want its last milestone %v", phase.Title, phase.DueDate, maxMilestone)
		}
	}
}

func TestGenerateStarterPlanPastDueClampsToToday(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, -5)

	plan := GenerateStarterPlan(testPhases(), start, due)
	for _, phase := range plan {
		for _, m := range phase.Milestones {
			if m.DueDate.After(truncateDay(due)) {
				t.Errorf("milestone %q due %v exceeds clamp %v", m.Title, m.DueDate, truncateDay(due))
			}
		}
	}
}

func TestGenerateStarterPlanDefaultsEmptyPriorityToMedium(t *testing.T) {
	t.Parallel()

	phases := []models.StarterPhase{
		{Title: "Untyped", Milestones: []models.StarterMilestone{{Title: "Only", Percent: 50}}},
	}
	plan := GenerateStarterPlan(phases, time.Now(), time.Now().AddDate(0, 0, 10))
	if plan[0].Priority != models.PriorityMedium {
		t.Errorf("priority: got %q, want %q", plan[0].Priority, models.PriorityMedium)
	}
}
