package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"go-todo/internal/application/view"
	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
	"go-todo/internal/domain/usecase/todosync"
	"go-todo/pkg/msg"
)

// stateMsg carries a synchronizer snapshot into the program
type stateMsg todosync.State

// notificationMsg carries a notification into the program
type notificationMsg model.Notification

type mode int

const (
	browsing mode = iota
	adding
	editing
)

type keyMap struct {
	Up, Down, Add, Edit, Toggle, Delete, Refresh, Quit key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model of the terminal client. It renders the synchronizer state
// and turns key presses into synchronizer calls.
type Model struct {
	ctx      context.Context
	sync     todosync.UseCase
	identity entity.Identity

	state  todosync.State
	cursor int

	mode        mode
	editID      string
	title       textinput.Model
	description textinput.Model
	formErr     string

	toast *model.Notification
}

func NewModel(ctx context.Context, sync todosync.UseCase, identity entity.Identity) Model {
	title := textinput.New()
	title.Prompt = "Title: "
	title.Placeholder = "What needs to be done?"
	title.CharLimit = 200

	description := textinput.New()
	description.Prompt = "Description: "
	description.Placeholder = "optional"
	description.CharLimit = 500

	return Model{
		ctx:         ctx,
		sync:        sync,
		identity:    identity,
		state:       sync.State(),
		title:       title,
		description: description,
	}
}

// Init signs the synchronizer in, which fetches the list
func (m Model) Init() tea.Cmd {
	identity := m.identity
	return func() tea.Msg {
		m.sync.SetIdentity(m.ctx, &identity)
		return stateMsg(m.sync.State())
	}
}

// rows is the list in display order: active todos, then completed ones
func (m Model) rows() []entity.Todo {
	list := view.NewTodoList(m.state)
	return append(list.Active, list.Completed...)
}

func (m Model) selected() (entity.Todo, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return entity.Todo{}, false
	}
	return rows[m.cursor], true
}

func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case stateMsg:
		m.state = todosync.State(message)
		if rows := len(m.rows()); m.cursor >= rows {
			m.cursor = max(rows-1, 0)
		}
		return m, nil
	case notificationMsg:
		notification := model.Notification(message)
		m.toast = &notification
		return m, nil
	case tea.KeyMsg:
		if m.mode != browsing {
			return m.updateForm(message)
		}
		return m.updateList(message)
	}
	return m, nil
}

func (m Model) updateList(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, keys.Quit):
		return m, tea.Quit
	case key.Matches(message, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(message, keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case key.Matches(message, keys.Add):
		m.mode = adding
		m.editID = ""
		m.title.SetValue("")
		m.description.SetValue("")
		return m, m.focusTitle()
	case key.Matches(message, keys.Edit):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = editing
		m.editID = todo.ID
		m.title.SetValue(todo.Title)
		m.description.SetValue("")
		if todo.Description != nil {
			m.description.SetValue(*todo.Description)
		}
		return m, m.focusTitle()
	case key.Matches(message, keys.Toggle):
		if todo, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) {
				_, _ = m.sync.Update(ctx, todo.ID, view.Toggle(todo.Completed))
			})
		}
	case key.Matches(message, keys.Delete):
		if todo, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) {
				_ = m.sync.Delete(ctx, todo.ID)
			})
		}
	case key.Matches(message, keys.Refresh):
		return m, m.run(func(ctx context.Context) {
			_ = m.sync.FetchAll(ctx)
		})
	}
	return m, nil
}

func (m Model) updateForm(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		m.closeForm()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		if m.title.Focused() {
			m.title.Blur()
			return m, m.description.Focus()
		}
		m.description.Blur()
		return m, m.title.Focus()
	case tea.KeyEnter:
		return m.submit()
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(message)
	} else {
		m.description, cmd = m.description.Update(message)
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	form := view.TodoForm{Title: m.title.Value(), Description: m.description.Value()}

	if m.mode == adding {
		title, description, err := form.Create()
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.closeForm()
		return m, m.run(func(ctx context.Context) {
			_, _ = m.sync.Create(ctx, title, description)
		})
	}

	patch, err := form.Edit()
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	id := m.editID
	m.closeForm()
	return m, m.run(func(ctx context.Context) {
		_, _ = m.sync.Update(ctx, id, patch)
	})
}

func (m *Model) focusTitle() tea.Cmd {
	m.formErr = ""
	m.description.Blur()
	return m.title.Focus()
}

func (m *Model) closeForm() {
	m.mode = browsing
	m.editID = ""
	m.formErr = ""
	m.title.Blur()
	m.description.Blur()
}

// run calls the synchronizer off the update loop; results come back as stateMsg and notificationMsg
func (m Model) run(operation func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		operation(m.ctx)
		return stateMsg(m.sync.State())
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(msg.GetMessage("todo.view.title")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(msg.GetMessage("todo.view.welcome", m.identity.Email)))
	b.WriteString("\n\n")

	if m.toast != nil {
		style := successStyle
		if m.toast.Severity == model.SeverityError {
			style = errorStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s: %s", m.toast.Title, m.toast.Description)))
		b.WriteString("\n\n")
	}

	if m.mode != browsing {
		form := m.title.View() + "\n" + m.description.View()
		if m.formErr != "" {
			form += "\n" + errorStyle.Render(m.formErr)
		}
		b.WriteString(panelStyle.Render(form))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter save • tab switch field • esc cancel"))
		b.WriteString("\n\n")
	}

	listView := view.NewListView(m.state)
	if listView.Placeholder != "" {
		b.WriteString(mutedStyle.Render(listView.Placeholder))
		b.WriteString("\n")
	}

	index := 0
	for _, section := range listView.Sections {
		b.WriteString(headingStyle.Render(section.Heading))
		b.WriteString("\n")
		for _, todo := range section.Todos {
			b.WriteString(m.renderRow(todo, index == m.cursor))
			b.WriteString("\n")
			index++
		}
		b.WriteString("\n")
	}

	if m.mode == browsing {
		b.WriteString(helpStyle.Render("a add • e edit • space toggle • d delete • r refresh • q quit"))
	}
	return b.String()
}

func (m Model) renderRow(todo entity.Todo, selected bool) string {
	box := boxUnchecked
	text := todo.Title
	if todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	if todo.Description != nil {
		text += " " + mutedStyle.Render(*todo.Description)
	}

	prefix := "  "
	if selected {
		prefix = selectedStyle.Render(">") + " "
	}
	return prefix + box + " " + text
}
