package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"littletodo/internal/storage"
)

type mode int

const (
	modeMenu mode = iota
	modeAdd
	modeComplete
	modeRemove
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// Model is the Bubble Tea rendition of the numbered menu.
type Model struct {
	store  *storage.Store
	logger *log.Logger
	mode   mode
	input  textinput.Model
	lines  []string
	status string
	err    error
	saved  bool
}

func NewModel(store *storage.Store, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		store:  store,
		logger: logger,
		mode:   modeMenu,
		input:  ti,
		status: "Press 1-5 to choose an option.",
	}
}

// RunTUI runs the menu as a full-screen program. It returns the save error
// or the input error that ended it, if any.
func RunTUI(store *storage.Store, logger *log.Logger) error {
	program := tea.NewProgram(NewModel(store, logger))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.err
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeMenu {
			return m.updateMenuMode(msg.String())
		}
		return m.updatePromptMode(msg.String(), msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateMenuMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "1":
		return m.startPrompt(modeAdd, promptTitle)
	case "2":
		m.lines = nil
		for _, t := range m.store.List() {
			m.lines = append(m.lines, FormatTask(t))
		}
		m.status = strings.TrimSpace(listHeader)
		if len(m.lines) == 0 {
			m.status = "No todos yet."
		}
	case "3":
		return m.startPrompt(modeComplete, promptComplete)
	case "4":
		return m.startPrompt(modeRemove, promptRemove)
	case "5":
		if err := m.store.Save(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.saved = true
		return m, tea.Quit
	case "ctrl+c":
		m.status = "Press 5 to save and exit."
	default:
		m.status = invalidChoice
	}
	return m, nil
}

func (m Model) startPrompt(next mode, prompt string) (tea.Model, tea.Cmd) {
	m.mode = next
	m.input.SetValue("")
	m.input.Placeholder = strings.TrimSuffix(prompt, ": ")
	m.status = "Enter to confirm, Esc to cancel"
	return m, m.input.Focus()
}

func (m Model) updatePromptMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.status = "Cancelled"
		return m.endPrompt(), nil
	case "enter":
		return m.submit(strings.TrimSpace(m.input.Value()))
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submit(value string) (tea.Model, tea.Cmd) {
	if m.mode == modeAdd {
		if value == "" {
			m.status = emptyTitle
			return m, nil
		}
		t := m.store.Add(value)
		m.status = fmt.Sprintf("Added todo %d", t.ID)
		return m.endPrompt(), nil
	}

	id, err := ParseID(value)
	if err != nil {
		m.err = err
		return m.endPrompt(), tea.Quit
	}
	switch m.mode {
	case modeComplete:
		if err := m.store.Complete(id); err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				m.err = err
				return m.endPrompt(), tea.Quit
			}
			m.status = notFound(id)
		} else {
			m.status = fmt.Sprintf("Completed todo %d", id)
		}
	case modeRemove:
		if m.store.Remove(id) {
			m.status = fmt.Sprintf("Removed todo %d", id)
		} else {
			m.logger.Debug("remove of unknown id ignored", "id", id)
			m.status = ""
		}
	}
	return m.endPrompt(), nil
}

func (m Model) endPrompt() Model {
	m.mode = modeMenu
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m Model) View() string {
	if m.saved {
		return "Saved.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Little todo"))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimPrefix(menuText, "Little todo has started!\n"))

	if m.mode != modeMenu {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if len(m.lines) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(m.lines, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	return b.String()
}
