package scheduler

import (
	"time"

	"go.trai.ch/tgr/internal/core/domain"
)

// Result is the outcome of one task in a run.
type Result struct {
	Task     string
	Status   domain.TaskStatus
	Duration time.Duration
}

// Report lists the outcome of every task the run reached, sorted by task name.
type Report struct {
	Results []Result
}

// Tasks returns the names of the tasks with the given status.
func (r *Report) Tasks(status domain.TaskStatus) []string {
	var names []string
	for _, res := range r.Results {
		if res.Status == status {
			names = append(names, res.Task)
		}
	}
	return names
}

// Count returns the number of tasks with the given status.
func (r *Report) Count(status domain.TaskStatus) int {
	return len(r.Tasks(status))
}
