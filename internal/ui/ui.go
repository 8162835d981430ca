package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tracker/internal/config"
	"tracker/internal/tasks"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

const progressWidth = 30

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	filterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	activeFilter   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	barFullStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	archiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Model is the Bubble Tea program state. It is also the controller's
// ViewPort: the controller pushes rows and the active filter into it and
// reads the entry controls back out.
type Model struct {
	ctrl     *tasks.Controller
	cfg      config.Config
	rows     []tasks.Task
	progress tasks.Progress
	filter   tasks.Filter
	cursor   int
	mode     mode
	input    textinput.Model
	category int
	status   string
	err      error
}

var _ tasks.ViewPort = (*Model)(nil)

func New(cfg config.Config) *Model {
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{tasks.DefaultCategory}
	}

	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = 256
	ti.Width = 40

	return &Model{
		cfg:    cfg,
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, %s to toggle, '%s' to archive.", cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.Archive),
	}
}

// Bind attaches the controller that Update drives.
func (m *Model) Bind(ctrl *tasks.Controller) {
	m.ctrl = ctrl
}

// Run loads the snapshot, then blocks until the user quits. A failed
// snapshot write ends the program and is returned.
func Run(snapshot *tasks.Snapshot, cfg config.Config) error {
	m := New(cfg)
	m.Bind(tasks.NewController(snapshot, m))
	m.ctrl.Load()

	program := tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		return err
	}
	return m.err
}

func (m *Model) RenderList(visible []tasks.Task, progress tasks.Progress) {
	m.rows = visible
	m.progress = progress
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m *Model) ReadInput() string {
	return m.input.Value()
}

func (m *Model) ReadCategory() string {
	return m.cfg.Categories[m.category]
}

func (m *Model) HighlightFilter(f tasks.Filter) {
	m.filter = f
}

// Err reports the write failure that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m *Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		added, err := m.ctrl.Submit()
		if err != nil {
			return m.fail(err)
		}
		if added == nil {
			return m, nil
		}
		m.input.SetValue("")
		m.cursor = 0
		m.status = fmt.Sprintf("Added %q to %s", added.Text, added.Category)
		return m, nil
	case m.cfg.Keys.NextCategory:
		m.category = wrapIndex(m.category+1, len(m.cfg.Categories))
		return m, nil
	case "shift+tab":
		m.category = wrapIndex(m.category-1, len(m.cfg.Categories))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.status = "Type a task, tab to change category, enter to add, esc to finish"
		return m, m.input.Focus()
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.Toggle(t.ID); err != nil {
			return m.fail(err)
		}
		m.status = ""
	case m.cfg.Keys.Archive:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.Remove(t.ID); err != nil {
			return m.fail(err)
		}
		m.status = fmt.Sprintf("Archived %q", t.Text)
	case m.cfg.Keys.NextCategory:
		m.category = wrapIndex(m.category+1, len(m.cfg.Categories))
	case m.cfg.Keys.CycleFilter:
		m.ctrl.SetFilter(m.filter.Next())
	case m.cfg.Keys.FilterAll:
		m.ctrl.SetFilter(tasks.FilterAll)
	case m.cfg.Keys.FilterActive:
		m.ctrl.SetFilter(tasks.FilterActive)
	case m.cfg.Keys.FilterCompleted:
		m.ctrl.SetFilter(tasks.FilterCompleted)
	}
	return m, nil
}

func (m *Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.status = fmt.Sprintf("save failed: %v", err)
	return m, tea.Quit
}

func (m *Model) selected() (tasks.Task, bool) {
	if len(m.rows) == 0 {
		return tasks.Task{}, false
	}
	return m.rows[clampCursor(m.cursor, len(m.rows))], true
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Stack Tracker"))
	b.WriteString("\n\n")
	b.WriteString(renderProgress(m.progress))
	b.WriteString("\n\n")

	b.WriteString(m.renderInputRow())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.emptyMessage())
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errStatusStyle.Render(m.status))
	} else {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m *Model) renderInputRow() string {
	category := tagStyle.Render(m.ReadCategory())
	if m.mode != modeAdd {
		return fmt.Sprintf("Category: %s", category)
	}
	return fmt.Sprintf("%s %s", m.input.View(), category)
}

func (m *Model) emptyMessage() string {
	if m.filter != tasks.FilterAll && m.progress.Total > 0 {
		return fmt.Sprintf("No %s tasks.", m.filter)
	}
	return fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)
}

func (m *Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.rows {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}

		b.WriteString(fmt.Sprintf("%s %s %s %s  %s\n",
			cursor, checkbox, tagStyle.Render(t.Category), text, archiveStyle.Render("Archive")))
	}
	return b.String()
}

func (m *Model) renderFilters() string {
	parts := make([]string, 0, len(tasks.Filters()))
	for _, f := range tasks.Filters() {
		label := strings.ToUpper(f.String()[:1]) + f.String()[1:]
		if f == m.filter {
			parts = append(parts, activeFilter.Render(label))
		} else {
			parts = append(parts, filterStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderProgress(p tasks.Progress) string {
	filled := p.Percentage * progressWidth / 100
	bar := barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", progressWidth-filled))
	return bar + "\n" + p.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s archive • %s/%s/%s or %s filter • %s category • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Archive, k.FilterAll, k.FilterActive, k.FilterCompleted, k.CycleFilter, k.NextCategory, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
