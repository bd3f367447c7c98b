package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/natter-sh/natter/internal/config"
	"github.com/natter-sh/natter/internal/transcript"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the persisted transcript",
	Long: `Show the persisted chat transcript.

Examples:
  natter history
  natter history --json
  natter history clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := transcript.NewStore(config.TranscriptPath())
		msgs := store.Messages()

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(msgs)
		}

		if len(msgs) == 0 {
			fmt.Println("No messages.")
			return nil
		}

		for _, m := range msgs {
			label := "You"
			if m.Sender == transcript.SenderAssistant {
				label = "natter"
			}
			if m.Type == transcript.TypePlugin {
				label += " [" + m.PluginName + "]"
			}
			fmt.Printf("%s  %s: %s\n", m.Timestamp.Local().Format("2006-01-02 15:04:05"), label, m.Content)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the persisted transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := transcript.NewStore(config.TranscriptPath())
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Transcript cleared.")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}
