package domain

import (
	"maps"
	"sync"
)

// TaskStateStore maps positional task identities to completion flags for one
// planning session. Unseen keys read as false. Safe for concurrent use.
type TaskStateStore struct {
	mu    sync.RWMutex
	state map[TaskKey]bool
}

// NewTaskStateStore returns an empty store.
func NewTaskStateStore() *TaskStateStore {
	return &TaskStateStore{state: make(map[TaskKey]bool)}
}

// Get returns the completion flag for (monthsOut, taskIndex).
func (s *TaskStateStore) Get(monthsOut, taskIndex int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[TaskKey{MonthsOut: monthsOut, TaskIndex: taskIndex}]
}

// Toggle flips the flag for (monthsOut, taskIndex) and returns the new value.
func (s *TaskStateStore) Toggle(monthsOut, taskIndex int) bool {
	key := TaskKey{MonthsOut: monthsOut, TaskIndex: taskIndex}

	s.mu.Lock()
	defer s.mu.Unlock()
	v := !s.state[key]
	s.set(key, v)
	return v
}

// Set records an explicit value.
func (s *TaskStateStore) Set(key TaskKey, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, completed)
}

// false is the default, so it is not stored.
func (s *TaskStateStore) set(key TaskKey, completed bool) {
	if completed {
		s.state[key] = true
		return
	}
	delete(s.state, key)
}

// Snapshot copies the completed keys.
func (s *TaskStateStore) Snapshot() map[TaskKey]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.state)
}

// Restore replaces the store contents with state.
func (s *TaskStateStore) Restore(state map[TaskKey]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = make(map[TaskKey]bool, len(state))
	for k, v := range state {
		s.set(k, v)
	}
}

// Apply returns a copy of milestones with Completed filled from the store.
// The input is not modified.
func (s *TaskStateStore) Apply(milestones []Milestone) []Milestone {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Milestone, len(milestones))
	for i, m := range milestones {
		tasks := make([]TaskItem, len(m.Tasks))
		for j, t := range m.Tasks {
			t.Completed = s.state[t.Key]
			tasks[j] = t
		}
		m.Tasks = tasks
		out[i] = m
	}
	return out
}
