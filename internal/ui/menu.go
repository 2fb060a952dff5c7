package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"littletodo/internal/storage"
)

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrInputClosed = errors.New("input closed before exit")
)

const menuText = `Little todo has started!
1. Add Todo
2. List Todos
3. Complete Todo
4. Remove Todo
5. Exit
Please input one of the above options:
`

const (
	promptTitle    = "Enter todo title: "
	promptComplete = "Enter Complete Todo id: "
	promptRemove   = "Enter remove Todo id: "
	listHeader     = "List Todos: "
	invalidChoice  = "Invalid choice, please retry."
	emptyTitle     = "Title cannot be empty"
)

type menu struct {
	store  *storage.Store
	in     *bufio.Reader
	out    io.Writer
	logger *log.Logger
}

// RunMenu drives the store from a numbered text menu until option 5 saves
// and returns. Read failures and non-numeric ids end the loop without saving.
func RunMenu(store *storage.Store, in io.Reader, out io.Writer, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := menu{store: store, in: bufio.NewReader(in), out: out, logger: logger}
	for {
		fmt.Fprint(m.out, menuText)
		choice, err := m.readLine()
		if err != nil {
			return err
		}
		done, err := m.dispatch(choice)
		if err != nil || done {
			return err
		}
	}
}

func (m menu) dispatch(choice string) (bool, error) {
	switch choice {
	case "1":
		fmt.Fprint(m.out, promptTitle)
		title, err := m.readLine()
		if err != nil {
			return false, err
		}
		if title == "" {
			fmt.Fprintln(m.out, emptyTitle)
			return false, nil
		}
		m.store.Add(title)
	case "2":
		fmt.Fprintln(m.out, listHeader)
		for _, t := range m.store.List() {
			fmt.Fprintln(m.out, FormatTask(t))
		}
	case "3":
		id, err := m.readID(promptComplete)
		if err != nil {
			return false, err
		}
		if err := m.store.Complete(id); err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return false, err
			}
			fmt.Fprintln(m.out, notFound(id))
		}
	case "4":
		id, err := m.readID(promptRemove)
		if err != nil {
			return false, err
		}
		if !m.store.Remove(id) {
			m.logger.Debug("remove of unknown id ignored", "id", id)
		}
	case "5":
		return true, m.store.Save()
	default:
		fmt.Fprintln(m.out, invalidChoice)
	}
	return false, nil
}

func (m menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if errors.Is(err, io.EOF) {
		return "", ErrInputClosed
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (m menu) readID(prompt string) (int, error) {
	fmt.Fprint(m.out, prompt)
	s, err := m.readLine()
	if err != nil {
		return 0, err
	}
	return ParseID(s)
}

// ParseID accepts a non-negative 32-bit id.
func ParseID(s string) (int, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidID, s)
	}
	return int(id), nil
}

// FormatTask renders a todo as "id: [X] title", with a blank box when open.
func FormatTask(t storage.Task) string {
	mark := " "
	if t.Completed {
		mark = "X"
	}
	return fmt.Sprintf("%d: [%s] %s", t.ID, mark, t.Title)
}

func notFound(id int) string {
	return fmt.Sprintf("Todo with id %d not found.", id)
}
