package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatty/internal/chat"
	"chatty/internal/domain"
)

type deltaMsg struct{ text string }

type doneMsg struct{}

type errMsg struct{ err error }

// Model is the Bubble Tea model for the chat application.
type Model struct {
	session *chat.Session
	models  []domain.Model

	input    textinput.Model
	viewport viewport.Model

	streaming      bool
	pending        string
	pendingInput   string
	base           string
	deltas         chan tea.Msg
	searchEnabled  bool
	searchOverride string

	status string
	ready  bool
}

// New creates a new TUI model instance.
func New(session *chat.Session, models []domain.Model) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message, or /help"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		session:  session,
		models:   models,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("Model: %s. Type /help for commands.", session.Model().Name),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and stream events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + th // header + status + frames
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.refreshTranscript()
		return m, nil
	case deltaMsg:
		m.pending += msg.text
		m.refreshTranscript()
		return m, m.waitDelta()
	case doneMsg:
		m.session.Finish(m.pending)
		m.streaming = false
		m.pending = ""
		m.pendingInput = ""
		m.status = "Ready."
		m.refreshTranscript()
		return m, nil
	case errMsg:
		// Partial output is kept, but the turn must visibly fail and
		// still be recorded in the history.
		text := m.pending
		if text != "" {
			text += "\n"
		}
		text += "Error: " + msg.err.Error()
		m.session.Finish(text)
		m.streaming = false
		m.pending = ""
		m.pendingInput = ""
		m.status = "Completion failed."
		m.refreshTranscript()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	if m.streaming {
		m.status = "Still responding, hold on."
		return m, nil
	}
	m.input.SetValue("")
	if strings.HasPrefix(line, "/") {
		return m.command(line)
	}

	override := m.searchOverride
	m.searchOverride = ""
	m.streaming = true
	m.pending = ""
	m.pendingInput = line
	m.base = renderHistory(m.session.History())
	m.status = "Thinking..."
	m.deltas = make(chan tea.Msg, 32)
	m.refreshTranscript()
	return m, tea.Batch(runTurn(m.session, line, m.searchEnabled, override, m.deltas), m.waitDelta())
}

func (m Model) command(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	arg := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	switch fields[0] {
	case "/quit":
		return m, tea.Quit
	case "/help":
		m.status = "/attach <path>  /search on|off  /query <text>  /model [name]  /docs [clear]  /clear  /quit"
	case "/clear":
		m.session.ClearHistory()
		m.status = "Chat history cleared."
		m.refreshTranscript()
	case "/attach":
		if arg == "" {
			m.status = "Usage: /attach <path>"
			break
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			m.status = "Attach failed: " + err.Error()
			break
		}
		summary, err := m.session.Attach(arg, data)
		if err != nil {
			m.status = "Warning: " + err.Error()
			break
		}
		m.status = fmt.Sprintf("Attached %s (%d documents). %s", arg, m.session.DocumentCount(), summary)
	case "/docs":
		if arg == "clear" {
			m.session.ClearDocuments()
			m.status = "Cleared all ingested documents."
		} else {
			m.status = fmt.Sprintf("Documents in context: %d", m.session.DocumentCount())
		}
	case "/search":
		switch arg {
		case "on":
			m.searchEnabled = true
			m.status = "Web search enabled."
		case "off":
			m.searchEnabled = false
			m.status = "Web search disabled."
		default:
			m.status = "Usage: /search on|off"
		}
	case "/query":
		m.searchOverride = arg
		m.status = "Search query override set for the next message."
	case "/model":
		if arg == "" {
			names := make([]string, len(m.models))
			for i, md := range m.models {
				names[i] = md.Name
			}
			m.status = "Models: " + strings.Join(names, ", ")
			break
		}
		found := false
		for _, md := range m.models {
			if md.Name == arg || md.ID == arg {
				m.session.SetModel(md)
				m.status = "Model set to " + md.Name
				found = true
				break
			}
		}
		if !found {
			m.status = "Unknown model: " + arg
		}
	default:
		m.status = "Unknown command: " + fields[0]
	}
	return m, nil
}

// runTurn drives one completion turn on a worker goroutine, forwarding
// stream deltas as messages. The channel is closed when the turn ends.
func runTurn(session *chat.Session, input string, searchEnabled bool, override string, ch chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		stream, err := session.Turn(context.Background(), input, searchEnabled, override)
		if err != nil {
			ch <- errMsg{err}
			return nil
		}
		defer stream.Close()
		for {
			delta, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				ch <- doneMsg{}
				return nil
			}
			if err != nil {
				ch <- errMsg{err}
				return nil
			}
			ch <- deltaMsg{text: delta}
		}
	}
}

func (m *Model) waitDelta() tea.Cmd {
	ch := m.deltas
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Chatty")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// refreshTranscript rebuilds the viewport content. While a turn is
// streaming the history snapshot taken at submit time is used, so the
// worker goroutine owns the session state until the turn ends.
func (m *Model) refreshTranscript() {
	var content string
	if m.streaming {
		var b strings.Builder
		b.WriteString(m.base)
		b.WriteString(renderMessage(domain.ChatMessage{Role: domain.RoleUser, Content: m.pendingInput}))
		b.WriteString("\n\n")
		b.WriteString(assistantStyle.Render("Chatty"))
		b.WriteString("\n")
		b.WriteString(m.pending)
		content = b.String()
	} else {
		content = renderHistory(m.session.History())
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func renderHistory(history []domain.ChatMessage) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(renderMessage(msg))
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderMessage(msg domain.ChatMessage) string {
	label := assistantStyle.Render("Chatty")
	if msg.Role == domain.RoleUser {
		label = userStyle.Render("You")
	}
	return label + "\n" + msg.Content
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
