// Package tui implements the bubbletea chat surface.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/natter-sh/natter/internal/transcript"
)

var (
	// Colors for chat
	chatPurple = lipgloss.Color("#A855F7")
	chatGreen  = lipgloss.Color("#22C55E")
	chatYellow = lipgloss.Color("#FBBF24")
	chatGray   = lipgloss.Color("#6B7280")
	chatWhite  = lipgloss.Color("#F9FAFB")

	// Styles for chat
	chatTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(chatPurple).
			MarginBottom(1)

	chatUserMsgStyle = lipgloss.NewStyle().
				Foreground(chatWhite).
				Background(chatPurple).
				Padding(0, 1).
				MarginTop(1)

	chatUserLabelStyle = lipgloss.NewStyle().
				Foreground(chatPurple).
				Bold(true)

	chatAssistantLabelStyle = lipgloss.NewStyle().
				Foreground(chatGreen).
				Bold(true)

	chatAssistantMsgStyle = lipgloss.NewStyle().
				Foreground(chatWhite).
				MarginTop(1)

	chatPluginTagStyle = lipgloss.NewStyle().
				Foreground(chatYellow).
				Bold(true)

	chatTypingStyle = lipgloss.NewStyle().
			Foreground(chatGray).
			Italic(true)

	chatInputBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(chatPurple).
				Padding(0, 1)

	chatInputBoxFocusedStyle = lipgloss.NewStyle().
					Border(lipgloss.RoundedBorder()).
					BorderForeground(chatGreen).
					Padding(0, 1)

	chatStatusStyle = lipgloss.NewStyle().
			Foreground(chatGray).
			MarginTop(1)

	chatHelpStyle = lipgloss.NewStyle().
			Foreground(chatGray)
)

// Event signals transcript activity from the dispatch loop.
type Event int

const (
	// EventUpdate means the transcript changed and should be re-rendered.
	EventUpdate Event = iota
	// EventDone means the current round trip finished.
	EventDone
)

// ChatModel is the bubbletea model for the chat UI.
type ChatModel struct {
	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	// State
	store    *transcript.Store
	thinking bool
	width    int
	height   int
	ready    bool

	// Channel for sending user input to the dispatch loop
	inputChan chan<- string
	// Channel for receiving transcript events
	events <-chan Event
	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc
}

// Messages
type updatedMsg struct{}
type doneMsg struct{}
type closedMsg struct{}

// NewChatModel creates a new chat TUI model.
func NewChatModel(store *transcript.Store, inputChan chan<- string, events <-chan Event) ChatModel {
	// Text area for input
	ta := textarea.New()
	ta.Placeholder = "Type a message or /command..."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false) // Enter sends message

	// Spinner for the in-flight round trip
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(chatPurple)

	// Viewport for messages
	vp := viewport.New(80, 20)

	ctx, cancel := context.WithCancel(context.Background())

	return ChatModel{
		textarea:  ta,
		viewport:  vp,
		spinner:   sp,
		store:     store,
		inputChan: inputChan,
		events:    events,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.waitForEvent(),
	)
}

func (m ChatModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return closedMsg{}
		case ev, ok := <-m.events:
			if !ok {
				return closedMsg{}
			}
			if ev == EventDone {
				return doneMsg{}
			}
			return updatedMsg{}
		}
	}
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit

		case tea.KeyEnter:
			// Input stays disabled for the whole round trip so
			// submissions cannot interleave.
			if !m.thinking {
				input := strings.TrimSpace(m.textarea.Value())
				if input != "" {
					m.textarea.Reset()
					m.thinking = true

					go func() {
						select {
						case m.inputChan <- input:
						case <-m.ctx.Done():
						}
					}()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 5
		helpHeight := 2
		viewportHeight := m.height - headerHeight - inputHeight - helpHeight - 2

		if !m.ready {
			m.viewport = viewport.New(m.width-2, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width - 2
			m.viewport.Height = viewportHeight
		}

		m.textarea.SetWidth(m.width - 4)
		m.updateViewport()

	case updatedMsg:
		m.updateViewport()
		cmds = append(cmds, m.waitForEvent())

	case doneMsg:
		m.thinking = false
		m.updateViewport()
		cmds = append(cmds, m.waitForEvent())

	case closedMsg:
		m.thinking = false

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update textarea
	if !m.thinking {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateViewport rebuilds the transcript view and scrolls to the newest
// entry.
func (m *ChatModel) updateViewport() {
	var content strings.Builder

	for _, msg := range m.store.Messages() {
		switch msg.Sender {
		case transcript.SenderUser:
			content.WriteString(chatUserLabelStyle.Render("You") + "\n")
			content.WriteString(chatUserMsgStyle.Render(msg.Content) + "\n\n")

		case transcript.SenderAssistant:
			label := chatAssistantLabelStyle.Render("natter")
			if msg.Type == transcript.TypePlugin {
				label += "  " + chatPluginTagStyle.Render("⚡ "+msg.PluginName)
			}
			content.WriteString(label + "\n")

			body := chatAssistantMsgStyle.Render(msg.Content)
			if msg.Content == "Typing..." {
				body = chatTypingStyle.Render(msg.Content)
			}
			content.WriteString(body + "\n\n")
		}
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func (m ChatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	// Header
	header := chatTitleStyle.Render("natter") + "  " + chatStatusStyle.Render("slash-command chat pad")
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", m.width-2) + "\n")

	// Messages viewport
	b.WriteString(m.viewport.View() + "\n")

	// In-flight indicator
	if m.thinking {
		b.WriteString(m.spinner.View() + " " + chatStatusStyle.Render("Waiting...") + "\n")
	} else {
		b.WriteString("\n")
	}

	// Input area
	b.WriteString(strings.Repeat("─", m.width-2) + "\n")

	inputStyle := chatInputBoxStyle
	if !m.thinking {
		inputStyle = chatInputBoxFocusedStyle
	}
	b.WriteString(inputStyle.Render(m.textarea.View()) + "\n")

	// Help
	help := chatHelpStyle.Render("Enter to send • /weather /calc /define • Esc to quit")
	b.WriteString(help)

	return b.String()
}

// RunChat starts the chat TUI.
func RunChat(store *transcript.Store, inputChan chan<- string, events <-chan Event) error {
	model := NewChatModel(store, inputChan, events)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
