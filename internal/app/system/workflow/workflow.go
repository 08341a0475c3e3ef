// internal/app/system/workflow/workflow.go

// Package workflow holds the two finite state machines in SprintHub: the
// task status workflow and the sprint lifecycle. Both are pure functions of
// the current and requested status; persistence-level exclusivity (one
// Active sprint per project) is enforced separately by a partial unique
// index in the sprints collection.
package workflow

import (
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// taskTransitions is the strict edge table for task statuses. Any edge not
// listed is illegal. Completed has no outgoing edges.
var taskTransitions = map[string][]string{
	models.TaskTodo:       {models.TaskInProgress},
	models.TaskInProgress: {models.TaskBlocked, models.TaskCompleted},
	models.TaskBlocked:    {models.TaskInProgress},
	models.TaskCompleted:  {},
}

// CanTransitionTask reports whether from → to is a legal task edge.
func CanTransitionTask(from, to string) bool {
	for _, next := range taskTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTask validates a task status change. It returns an
// InvalidTransition error naming the attempted edge when the edge is not in
// the table (including unknown statuses and self-transitions).
func TransitionTask(from, to string) error {
	if !CanTransitionTask(from, to) {
		return apperr.InvalidTransition(from, to)
	}
	return nil
}

// IsValidTaskStatus reports whether s is a known task status.
func IsValidTaskStatus(s string) bool {
	_, ok := taskTransitions[s]
	return ok
}

// IsValidTaskPriority reports whether p is a known task priority.
func IsValidTaskPriority(p string) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

// sprintOrder encodes the forward-only sprint lifecycle:
// Planned → Active → Completed. There are no rollback edges.
var sprintOrder = map[string]int{
	models.SprintPlanned:   0,
	models.SprintActive:    1,
	models.SprintCompleted: 2,
}

// IsValidSprintStatus reports whether s is a known sprint status.
func IsValidSprintStatus(s string) bool {
	_, ok := sprintOrder[s]
	return ok
}

// SprintTerminal reports whether a sprint status admits no further mutation.
func SprintTerminal(status string) bool {
	return status == models.SprintCompleted
}

// TransitionSprint validates a sprint status change. The lifecycle only
// moves forward one step at a time: Planned → Active → Completed. Setting
// the current status again is allowed for Planned and Active (a no-op
// update), but Completed is absorbing.
func TransitionSprint(from, to string) error {
	fromOrd, okFrom := sprintOrder[from]
	toOrd, okTo := sprintOrder[to]
	if !okFrom || !okTo {
		return apperr.InvalidTransition(from, to)
	}
	if from == models.SprintCompleted {
		return apperr.InvalidTransition(from, to)
	}
	if toOrd == fromOrd || toOrd == fromOrd+1 {
		return nil
	}
	return apperr.InvalidTransition(from, to)
}
