// Package janitor owns cleanup tasks whose lifetime is tied to a state
// transition rather than to a lexical scope.
package janitor

import "sync"

// Releaser is anything that can be released, such as a signal connection.
type Releaser interface {
	Disconnect()
}

// Janitor collects cleanup tasks and runs them together.
// The zero value is ready to use.
type Janitor struct {
	mu    sync.Mutex
	tasks []func()
}

// Give registers a cleanup function.
func (j *Janitor) Give(task func()) {
	if task == nil {
		return
	}
	j.mu.Lock()
	j.tasks = append(j.tasks, task)
	j.mu.Unlock()
}

// GiveConnection registers a connection to be disconnected on Cleanup.
func (j *Janitor) GiveConnection(r Releaser) {
	if r == nil {
		return
	}
	j.Give(r.Disconnect)
}

// Len returns the number of tasks waiting to run.
func (j *Janitor) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.tasks)
}

// Cleanup runs every registered task once, most recent first, and forgets them.
// Calling Cleanup on an empty janitor does nothing.
func (j *Janitor) Cleanup() {
	j.mu.Lock()
	tasks := j.tasks
	j.tasks = nil
	j.mu.Unlock()

	for i := len(tasks) - 1; i >= 0; i-- {
		tasks[i]()
	}
}
