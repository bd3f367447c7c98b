// Package dispatch routes user submissions to plugins and owns the
// transcript round trip for each one.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/natter-sh/natter/internal/plugin"
	"github.com/natter-sh/natter/internal/rewrite"
	"github.com/natter-sh/natter/internal/transcript"
)

// Fixed user-facing replies. These are part of the chat contract, not
// debug strings; keep them stable.
const (
	replyNoCity       = "Please provide a city."
	replyWeatherError = "City not found or API error."
	replyBadExpr      = "Invalid expression"
	replyNoWord       = "Please provide a word."
	replyNoDefinition = "Definition not found"
	replyDefineError  = "Error fetching definition"
	replyUnrecognized = "Unrecognized command."

	typingContent = "Typing..."
)

// Config holds dispatcher configuration.
type Config struct {
	Store   *transcript.Store
	Plugins *plugin.Registry

	// TypingDelay is how long the typing placeholder stays in the
	// transcript before the reply is produced.
	TypingDelay time.Duration
	// RequestTimeout bounds each plugin invocation.
	RequestTimeout time.Duration

	Logger zerolog.Logger
}

// Dispatcher classifies input as natural language or explicit command and
// produces exactly one assistant reply per submission.
type Dispatcher struct {
	store   *transcript.Store
	plugins *plugin.Registry
	delay   time.Duration
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a dispatcher.
func New(cfg Config) *Dispatcher {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Dispatcher{
		store:   cfg.Store,
		plugins: cfg.Plugins,
		delay:   cfg.TypingDelay,
		timeout: timeout,
		log:     cfg.Logger,
	}
}

// Submit runs one full round trip: user message, transient typing
// placeholder, plugin dispatch, reply. onUpdate is called after every
// transcript mutation so the surface can re-render; it may be nil.
//
// Callers must not overlap Submit calls for the same surface; the UI is
// expected to disable input until Submit returns.
func (d *Dispatcher) Submit(ctx context.Context, text string, onUpdate func()) error {
	notify := func() {
		if onUpdate != nil {
			onUpdate()
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if _, err := d.store.Append(transcript.NewText(transcript.SenderUser, text)); err != nil {
		return err
	}
	notify()

	typing, err := d.store.Append(transcript.NewText(transcript.SenderAssistant, typingContent))
	if err != nil {
		return err
	}
	notify()

	if d.delay > 0 {
		select {
		case <-ctx.Done():
			d.store.RemoveByID(typing.ID)
			notify()
			return ctx.Err()
		case <-time.After(d.delay):
		}
	}

	if err := d.store.RemoveByID(typing.ID); err != nil {
		return err
	}

	reply := d.Reply(ctx, text)
	if _, err := d.store.Append(reply); err != nil {
		return err
	}
	notify()

	return nil
}

// Reply produces the assistant reply for one submission without touching
// the transcript. Natural language is rewritten to a slash command first;
// the text itself is the command when no rewrite rule matches.
func (d *Dispatcher) Reply(ctx context.Context, text string) transcript.Message {
	command := text
	if rewritten, ok := rewrite.Command(text); ok {
		d.log.Debug().Str("input", text).Str("command", rewritten).Msg("rewrote input")
		command = rewritten
	}

	name, arg := splitCommand(command)

	switch name {
	case "weather":
		return d.runWeather(ctx, arg)
	case "calc":
		return d.runCalc(ctx, arg)
	case "define":
		return d.runDefine(ctx, arg)
	default:
		return transcript.NewText(transcript.SenderAssistant, replyUnrecognized)
	}
}

func (d *Dispatcher) runWeather(ctx context.Context, city string) transcript.Message {
	if city == "" {
		return transcript.NewText(transcript.SenderAssistant, replyNoCity)
	}

	res, err := d.runPlugin(ctx, "weather", city)
	if err != nil {
		d.log.Warn().Err(err).Str("city", city).Msg("weather lookup failed")
		return transcript.NewText(transcript.SenderAssistant, replyWeatherError)
	}
	return transcript.NewPlugin(res.Content, "weather", res.Data)
}

func (d *Dispatcher) runCalc(ctx context.Context, expr string) transcript.Message {
	res, err := d.runPlugin(ctx, "calc", expr)
	if err != nil {
		d.log.Debug().Err(err).Str("expr", expr).Msg("evaluation failed")
		return transcript.NewText(transcript.SenderAssistant, replyBadExpr)
	}
	return transcript.NewPlugin(res.Content, "calc", res.Data)
}

func (d *Dispatcher) runDefine(ctx context.Context, word string) transcript.Message {
	if word == "" {
		return transcript.NewText(transcript.SenderAssistant, replyNoWord)
	}

	res, err := d.runPlugin(ctx, "define", word)
	if err != nil {
		// A 200 with no definition is a different user-facing state
		// than a failed lookup.
		if errors.Is(err, plugin.ErrNotFound) {
			return transcript.NewText(transcript.SenderAssistant, replyNoDefinition)
		}
		d.log.Warn().Err(err).Str("word", word).Msg("definition lookup failed")
		return transcript.NewText(transcript.SenderAssistant, replyDefineError)
	}
	return transcript.NewPlugin(res.Content, "define", res.Data)
}

func (d *Dispatcher) runPlugin(ctx context.Context, name, arg string) (*plugin.Result, error) {
	p, ok := d.plugins.Get(name)
	if !ok {
		return nil, errors.New("plugin not registered: " + name)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return p.Run(ctx, arg)
}

// splitCommand splits "/weather new york" into ("weather", "new york").
// Input without a leading slash yields an empty name, which falls through
// to the unrecognized reply.
func splitCommand(command string) (name, arg string) {
	if !strings.HasPrefix(command, "/") {
		return "", strings.TrimSpace(command)
	}

	rest := strings.TrimPrefix(command, "/")
	parts := strings.SplitN(rest, " ", 2)
	name = parts[0]
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return name, arg
}
