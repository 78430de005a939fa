// internal/services/task_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrParentWrongProject = errors.New("parent task belongs to a different project")
	ErrTaskCycle          = errors.New("task may not become its own ancestor")
)

// statusRank orders board statuses. Unrecognized values sort last instead of
// failing.
func statusRank(s models.TaskStatus) int {
	switch s {
	case models.StatusTodo:
		return 0
	case models.StatusInProgress:
		return 1
	case models.StatusBlocked:
		return 2
	case models.StatusDone:
		return 3
	default:
		return 4
	}
}

func priorityRank(p models.TaskPriority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	default:
		return 3
	}
}

// dueKey treats a missing due date as the maximum date so dated tasks come
// first; createdKey treats a missing timestamp as the minimum.
func dueKey(t *models.Task) time.Time {
	if t.DueDate == nil {
		return time.Unix(1<<62-1, 0)
	}
	return *t.DueDate
}

func createdKey(t *models.Task) time.Time {
	return t.CreatedAt // zero value already sorts first
}

// BoardLess is the nested-view total order: status, priority, due date,
// creation time, id. The id tie-break makes the order total even for tasks
// with identical attributes.
func BoardLess(a, b *models.Task) bool {
	if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
		return ra < rb
	}
	if ra, rb := priorityRank(a.Priority), priorityRank(b.Priority); ra != rb {
		return ra < rb
	}
	if da, db := dueKey(a), dueKey(b); !da.Equal(db) {
		return da.Before(db)
	}
	if ca, cb := createdKey(a), createdKey(b); !ca.Equal(cb) {
		return ca.Before(cb)
	}
	return a.ID < b.ID
}

// QueueLess orders the flattened cross-project priority queue: the same key
// family with priority promoted ahead of due date and status demoted to last.
func QueueLess(a, b *models.Task) bool {
	if ra, rb := priorityRank(a.Priority), priorityRank(b.Priority); ra != rb {
		return ra < rb
	}
	if da, db := dueKey(a), dueKey(b); !da.Equal(db) {
		return da.Before(db)
	}
	if ca, cb := createdKey(a), createdKey(b); !ca.Equal(cb) {
		return ca.Before(cb)
	}
	if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
		return ra < rb
	}
	return a.ID < b.ID
}

// BuildBoard assembles tasks into parent/child trees and sorts every level
// with BoardLess. Tasks whose parent is missing from the slice surface as
// roots rather than disappearing.
func BuildBoard(tasks []models.Task) []*models.TaskNode {
	nodes := make(map[int64]*models.TaskNode, len(tasks))
	for i := range tasks {
		nodes[tasks[i].ID] = &models.TaskNode{Task: tasks[i]}
	}

	var roots []*models.TaskNode
	for _, node := range nodes {
		if node.Task.ParentTaskID != nil {
			if parent, ok := nodes[*node.Task.ParentTaskID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortLevel func(level []*models.TaskNode)
	sortLevel = func(level []*models.TaskNode) {
		sort.Slice(level, func(i, j int) bool {
			return BoardLess(&level[i].Task, &level[j].Task)
		})
		for _, node := range level {
			sortLevel(node.Children)
		}
	}
	sortLevel(roots)
	return roots
}

// PriorityQueue flattens non-done tasks across projects into QueueLess order.
func PriorityQueue(tasks []models.Task) []models.Task {
	queue := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			continue
		}
		queue = append(queue, t)
	}
	sort.Slice(queue, func(i, j int) bool {
		return QueueLess(&queue[i], &queue[j])
	})
	return queue
}

// TaskService owns task mutations and the two board views.
type TaskService interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	NestedBoard(ctx context.Context, projectID *int64) ([]*models.TaskNode, error)
	Queue(ctx context.Context, projectID *int64) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
	UpdatePriority(ctx context.Context, id int64, to models.TaskPriority) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
}

type taskService struct {
	repo     repositories.TaskRepository
	projects repositories.ProjectRepository
}

func NewTaskService(repo repositories.TaskRepository, projects repositories.ProjectRepository) TaskService {
	return &taskService{repo: repo, projects: projects}
}

func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if !ValidStatus(task.Status) || !ValidPriority(task.Priority) {
		return nil, ErrInvalidTransition
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	if task.ParentTaskID != nil {
		if err := s.checkParent(ctx, task); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// checkParent enforces the same-project invariant and walks the ancestor
// chain so a task can never be attached under itself.
func (s *taskService) checkParent(ctx context.Context, task *models.Task) error {
	seen := map[int64]bool{}
	if task.ID != 0 {
		seen[task.ID] = true
	}
	cursorID := *task.ParentTaskID
	first := true
	for {
		if seen[cursorID] {
			return ErrTaskCycle
		}
		seen[cursorID] = true

		parent, err := s.repo.FindByID(ctx, cursorID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrTaskNotFound
		}
		if first {
			if parent.ProjectID != task.ProjectID {
				return ErrParentWrongProject
			}
			first = false
		}
		if parent.ParentTaskID == nil {
			return nil
		}
		cursorID = *parent.ParentTaskID
	}
}

func (s *taskService) NestedBoard(ctx context.Context, projectID *int64) ([]*models.TaskNode, error) {
	tasks, err := s.repo.FindAll(ctx, models.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return BuildBoard(tasks), nil
}

func (s *taskService) Queue(ctx context.Context, projectID *int64) ([]models.Task, error) {
	tasks, err := s.repo.FindAll(ctx, models.TaskFilter{ProjectID: projectID, ExcludeDone: true})
	if err != nil {
		return nil, err
	}
	return PriorityQueue(tasks), nil
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	if !ValidStatus(to) {
		return ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (s *taskService) UpdatePriority(ctx context.Context, id int64, to models.TaskPriority) error {
	if !ValidPriority(to) {
		return ErrInvalidTransition
	}
	if err := s.repo.UpdatePriority(ctx, id, to); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (s *taskService) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}
