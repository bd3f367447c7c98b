// Package channel implements the plain line-oriented chat surface used by
// natter chat --simple.
package channel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/natter-sh/natter/internal/dispatch"
	"github.com/natter-sh/natter/internal/transcript"
)

var (
	termUserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A855F7")).
			Bold(true)

	termAssistantStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#22C55E")).
				Bold(true)

	termPluginStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	termFaintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// Terminal is an interactive terminal chat surface.
type Terminal struct {
	dispatcher *dispatch.Dispatcher
	store      *transcript.Store

	in  io.Reader
	out io.Writer

	printed map[string]bool
}

// NewTerminal creates a terminal surface over stdin/stdout.
func NewTerminal(d *dispatch.Dispatcher, store *transcript.Store) *Terminal {
	return &Terminal{
		dispatcher: d,
		store:      store,
		in:         os.Stdin,
		out:        os.Stdout,
		printed:    make(map[string]bool),
	}
}

// Run reads lines until EOF or an exit command. Input is not read again
// until the previous submission's round trip has finished.
func (t *Terminal) Run(ctx context.Context) error {
	fmt.Fprintln(t.out, termFaintStyle.Render("natter ready. Type /help for commands, /exit to quit."))
	t.replay()

	reader := bufio.NewReader(t.in)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(t.out, "\n> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" || line == "/exit" || line == "/quit" {
			return nil
		}

		if t.handleLocal(line) {
			continue
		}

		if err := t.dispatcher.Submit(ctx, line, t.printNew); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(t.out, "[ERROR] %v\n", err)
		}
	}
}

// handleLocal serves surface-only commands that never reach the dispatcher.
func (t *Terminal) handleLocal(line string) bool {
	switch line {
	case "/help":
		fmt.Fprintln(t.out, "\nCommands:")
		fmt.Fprintln(t.out, "  /weather <city>  - Current weather")
		fmt.Fprintln(t.out, "  /calc <expr>     - Evaluate arithmetic")
		fmt.Fprintln(t.out, "  /define <word>   - Look up a definition")
		fmt.Fprintln(t.out, "  /clear           - Clear screen")
		fmt.Fprintln(t.out, "  /exit            - Exit natter")
		return true
	case "/clear":
		fmt.Fprint(t.out, "\033[H\033[2J")
		return true
	}
	return false
}

// replay prints the transcript restored from disk and marks everything as
// printed so it is not shown twice.
func (t *Terminal) replay() {
	for _, msg := range t.store.Messages() {
		t.print(msg)
		t.printed[msg.ID] = true
	}
}

// printNew prints assistant messages that have not been shown yet. The
// user's own lines are already on screen.
func (t *Terminal) printNew() {
	for _, msg := range t.store.Messages() {
		if t.printed[msg.ID] {
			continue
		}
		t.printed[msg.ID] = true
		if msg.Sender != transcript.SenderAssistant {
			continue
		}
		t.print(msg)
	}
}

func (t *Terminal) print(msg transcript.Message) {
	switch msg.Sender {
	case transcript.SenderUser:
		fmt.Fprintf(t.out, "%s %s\n", termUserStyle.Render("You:"), msg.Content)
	case transcript.SenderAssistant:
		label := termAssistantStyle.Render("natter:")
		if msg.Type == transcript.TypePlugin {
			label += termPluginStyle.Render(" [" + msg.PluginName + "]")
		}
		fmt.Fprintf(t.out, "%s %s\n", label, msg.Content)
	}
}
