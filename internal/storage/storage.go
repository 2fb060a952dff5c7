package storage

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/log"
)

var ErrNotFound = errors.New("todo not found")

type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Backend persists the whole id->Task mapping. Load reports an error
// matching os.ErrNotExist when nothing has been saved yet.
type Backend interface {
	Name() string
	Load() (map[int]Task, error)
	Save(todos map[int]Task) error
}

// Store is the in-memory todo collection. Ids stay dense (1..N) only after
// Compact; Remove leaves gaps until the next List.
type Store struct {
	backend Backend
	logger  *log.Logger
	todos   map[int]Task
	nextID  int
}

func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		backend: backend,
		logger:  logger,
		todos:   make(map[int]Task),
		nextID:  1,
	}
}

func (s *Store) Add(title string) Task {
	t := Task{ID: s.nextID, Title: title}
	s.todos[t.ID] = t
	s.nextID++
	s.logger.Debug("added todo", "id", t.ID, "next_id", s.nextID)
	return t
}

// List compacts the ids and returns copies in display order.
func (s *Store) List() []Task {
	s.Compact()
	tasks := make([]Task, 0, len(s.todos))
	for _, id := range s.ids() {
		tasks = append(tasks, s.todos[id])
	}
	return tasks
}

// Compact renumbers the todos 1..N in ascending order of their current ids
// and resets the next id to N+1.
func (s *Store) Compact() {
	compacted := make(map[int]Task, len(s.todos))
	next := 1
	for _, id := range s.ids() {
		t := s.todos[id]
		t.ID = next
		compacted[next] = t
		next++
	}
	s.todos = compacted
	s.nextID = next
}

func (s *Store) Complete(id int) error {
	t, ok := s.todos[id]
	if !ok {
		return fmt.Errorf("todo with id %d: %w", id, ErrNotFound)
	}
	t.Completed = true
	s.todos[id] = t
	return nil
}

// Remove deletes the todo with the given id and reports whether it existed.
func (s *Store) Remove(id int) bool {
	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	return true
}

// Load replaces the collection with the persisted one. A missing file is
// an empty store. The next id is not derived from the loaded ids.
func (s *Store) Load() error {
	todos, err := s.backend.Load()
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("nothing persisted yet", "backend", s.backend.Name())
		return nil
	}
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}
	if todos == nil {
		todos = make(map[int]Task)
	}
	s.todos = todos
	s.logger.Debug("loaded todos", "backend", s.backend.Name(), "count", len(todos), "next_id", s.nextID)
	return nil
}

func (s *Store) Save() error {
	if err := s.backend.Save(s.todos); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	s.logger.Debug("saved todos", "backend", s.backend.Name(), "count", len(s.todos))
	return nil
}

func (s *Store) Len() int {
	return len(s.todos)
}

func (s *Store) NextID() int {
	return s.nextID
}

// Snapshot returns a copy of the id->Task mapping as it would be saved.
func (s *Store) Snapshot() map[int]Task {
	return maps.Clone(s.todos)
}

func (s *Store) ids() []int {
	return slices.Sorted(maps.Keys(s.todos))
}
