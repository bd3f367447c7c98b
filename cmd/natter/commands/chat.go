package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/natter-sh/natter/internal/channel"
	"github.com/natter-sh/natter/internal/config"
	"github.com/natter-sh/natter/internal/dispatch"
	"github.com/natter-sh/natter/internal/logging"
	"github.com/natter-sh/natter/internal/plugin"
	"github.com/natter-sh/natter/internal/transcript"
	"github.com/natter-sh/natter/internal/tui"
)

var chatSimple bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start interactive chat",
	Long: `Start an interactive chat session.

Examples:
  natter chat
  natter chat --simple   # Use simple terminal mode`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatSimple, "simple", false, "use simple terminal mode (no TUI)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := config.EnsureDirs(); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	store := transcript.NewStore(config.TranscriptPath())

	plugins := plugin.NewRegistry()
	plugins.Register(plugin.NewWeather(cfg.Weather, cfg.Chat.RequestTimeout()))
	plugins.Register(plugin.NewDictionary(cfg.Dictionary, cfg.Chat.RequestTimeout()))
	plugins.Register(plugin.NewCalc())

	dispatcher := dispatch.New(dispatch.Config{
		Store:          store,
		Plugins:        plugins,
		TypingDelay:    cfg.Chat.TypingDelay(),
		RequestTimeout: cfg.Chat.RequestTimeout(),
		Logger:         logger,
	})

	// Handle signals
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	logger.Info().Bool("simple", chatSimple).Msg("starting chat")

	if chatSimple {
		term := channel.NewTerminal(dispatcher, store)
		if err := term.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	}

	return runTUIChat(ctx, dispatcher, store)
}

func runTUIChat(ctx context.Context, dispatcher *dispatch.Dispatcher, store *transcript.Store) error {
	inputChan := make(chan string, 1)
	events := make(chan tui.Event, 16)

	// Dispatch loop: one submission at a time, the TUI keeps input
	// disabled until EventDone arrives.
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case input := <-inputChan:
				dispatcher.Submit(ctx, input, func() {
					select {
					case events <- tui.EventUpdate:
					case <-ctx.Done():
					}
				})
				select {
				case events <- tui.EventDone:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return tui.RunChat(store, inputChan, events)
}
