package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natter-sh/natter/internal/plugin"
	"github.com/natter-sh/natter/internal/transcript"
)

type fakePlugin struct {
	name string
	run  func(ctx context.Context, arg string) (*plugin.Result, error)
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) Run(ctx context.Context, arg string) (*plugin.Result, error) {
	return f.run(ctx, arg)
}

func newTestDispatcher(t *testing.T, plugins ...plugin.Plugin) (*Dispatcher, *transcript.Store) {
	t.Helper()

	store := transcript.NewStore(filepath.Join(t.TempDir(), "transcript.json"))

	reg := plugin.NewRegistry()
	reg.Register(plugin.NewCalc())
	for _, p := range plugins {
		reg.Register(p)
	}

	d := New(Config{
		Store:          store,
		Plugins:        reg,
		TypingDelay:    time.Millisecond,
		RequestTimeout: time.Second,
		Logger:         zerolog.Nop(),
	})
	return d, store
}

func TestReplyCalc(t *testing.T) {
	d, _ := newTestDispatcher(t)

	tests := []struct {
		name        string
		input       string
		wantContent string
		wantType    transcript.Type
	}{
		{name: "explicit command", input: "/calc 2+2", wantContent: "Result: 4", wantType: transcript.TypePlugin},
		{name: "natural language", input: "what is 2+2", wantContent: "Result: 4", wantType: transcript.TypePlugin},
		{name: "calculate phrase", input: "calculate (1+2)*3", wantContent: "Result: 9", wantType: transcript.TypePlugin},
		{name: "division by zero", input: "/calc 1/0", wantContent: "Invalid expression", wantType: transcript.TypeText},
		{name: "garbage", input: "/calc not numbers", wantContent: "Invalid expression", wantType: transcript.TypeText},
		{name: "empty expression", input: "/calc", wantContent: "Invalid expression", wantType: transcript.TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := d.Reply(context.Background(), tt.input)
			assert.Equal(t, tt.wantContent, msg.Content)
			assert.Equal(t, tt.wantType, msg.Type)
			assert.Equal(t, transcript.SenderAssistant, msg.Sender)
			if tt.wantType == transcript.TypePlugin {
				assert.Equal(t, "calc", msg.PluginName)
			} else {
				assert.Empty(t, msg.PluginName)
			}
		})
	}
}

func TestReplyWeather(t *testing.T) {
	weather := &fakePlugin{
		name: "weather",
		run: func(ctx context.Context, city string) (*plugin.Result, error) {
			if city == "atlantis" {
				return nil, fmt.Errorf("weather lookup returned HTTP 404")
			}
			return &plugin.Result{
				Content: fmt.Sprintf("Weather in %s: clear sky, 21°C", city),
				Data:    json.RawMessage(`{"main":{"temp":21}}`),
			}, nil
		},
	}
	d, _ := newTestDispatcher(t, weather)

	t.Run("success", func(t *testing.T) {
		msg := d.Reply(context.Background(), "/weather london")
		assert.Equal(t, "Weather in london: clear sky, 21°C", msg.Content)
		assert.Equal(t, "weather", msg.PluginName)
		assert.NotEmpty(t, msg.PluginData)
	})

	t.Run("natural language", func(t *testing.T) {
		msg := d.Reply(context.Background(), "What's the weather in London?")
		assert.Equal(t, "Weather in london: clear sky, 21°C", msg.Content)
	})

	t.Run("lookup failure", func(t *testing.T) {
		msg := d.Reply(context.Background(), "/weather atlantis")
		assert.Equal(t, "City not found or API error.", msg.Content)
		assert.Equal(t, transcript.TypeText, msg.Type)
	})
}

func TestReplyWeatherEmptyCityMakesNoCall(t *testing.T) {
	weather := &fakePlugin{
		name: "weather",
		run: func(ctx context.Context, city string) (*plugin.Result, error) {
			t.Fatal("plugin must not be invoked for an empty city")
			return nil, nil
		},
	}
	d, _ := newTestDispatcher(t, weather)

	msg := d.Reply(context.Background(), "/weather ")
	assert.Equal(t, "Please provide a city.", msg.Content)
	assert.Equal(t, transcript.TypeText, msg.Type)
}

func TestReplyDefine(t *testing.T) {
	dict := &fakePlugin{
		name: "define",
		run: func(ctx context.Context, word string) (*plugin.Result, error) {
			switch word {
			case "serendipity":
				return &plugin.Result{
					Content: "Definition of serendipity: a happy accident",
					Data:    json.RawMessage(`[{"word":"serendipity"}]`),
				}, nil
			case "xyzzy123notaword":
				return nil, fmt.Errorf("dictionary lookup returned HTTP 404")
			default:
				return nil, fmt.Errorf("no definition for %q: %w", word, plugin.ErrNotFound)
			}
		},
	}
	d, _ := newTestDispatcher(t, dict)

	t.Run("success", func(t *testing.T) {
		msg := d.Reply(context.Background(), "/define serendipity")
		assert.Equal(t, "Definition of serendipity: a happy accident", msg.Content)
		assert.Equal(t, "define", msg.PluginName)
	})

	t.Run("natural language", func(t *testing.T) {
		msg := d.Reply(context.Background(), "What does serendipity mean?")
		assert.Equal(t, "Definition of serendipity: a happy accident", msg.Content)
	})

	t.Run("lookup failure", func(t *testing.T) {
		msg := d.Reply(context.Background(), "/define xyzzy123notaword")
		assert.Equal(t, "Error fetching definition", msg.Content)
		assert.Equal(t, transcript.TypeText, msg.Type)
	})

	t.Run("empty structure", func(t *testing.T) {
		msg := d.Reply(context.Background(), "/define obscureword")
		assert.Equal(t, "Definition not found", msg.Content)
		assert.Equal(t, transcript.TypeText, msg.Type)
	})

	t.Run("empty word", func(t *testing.T) {
		msg := d.Reply(context.Background(), "/define")
		assert.Equal(t, "Please provide a word.", msg.Content)
	})
}

func TestReplyUnrecognized(t *testing.T) {
	d, _ := newTestDispatcher(t)

	for _, input := range []string{"/unknown thing", "hello there", "/", "/WEATHER london"} {
		msg := d.Reply(context.Background(), input)
		assert.Equal(t, "Unrecognized command.", msg.Content, "input %q", input)
	}
}

func TestSubmitRoundTrip(t *testing.T) {
	d, store := newTestDispatcher(t)

	var sawTyping bool
	err := d.Submit(context.Background(), "what is 2+2", func() {
		for _, m := range store.Messages() {
			if m.Content == "Typing..." {
				sawTyping = true
			}
		}
	})
	require.NoError(t, err)

	msgs := store.Messages()
	require.Len(t, msgs, 2, "placeholder must be removed, exactly one reply appended")
	assert.True(t, sawTyping, "typing placeholder never appeared")

	assert.Equal(t, transcript.SenderUser, msgs[0].Sender)
	assert.Equal(t, "what is 2+2", msgs[0].Content)
	assert.Equal(t, "Result: 4", msgs[1].Content)
	assert.Equal(t, "calc", msgs[1].PluginName)
}

func TestSubmitBlankInput(t *testing.T) {
	d, store := newTestDispatcher(t)

	require.NoError(t, d.Submit(context.Background(), "   ", nil))
	assert.Equal(t, 0, store.Len())
}

func TestSubmitCancelledDuringDelay(t *testing.T) {
	store := transcript.NewStore(filepath.Join(t.TempDir(), "transcript.json"))
	reg := plugin.NewRegistry()
	reg.Register(plugin.NewCalc())

	d := New(Config{
		Store:       store,
		Plugins:     reg,
		TypingDelay: time.Hour,
		Logger:      zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := d.Submit(ctx, "/calc 1+1", nil)
	require.ErrorIs(t, err, context.Canceled)

	// The user message stays, the placeholder does not, no reply lands.
	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "/calc 1+1", msgs[0].Content)
}
