package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var jsonOut bool

var rootCmd = &cobra.Command{
	Use:   "natter",
	Short: "natter - slash-command chat pad",
	Long: `natter is a small terminal chat pad with slash-command plugins.

Commands:
  natter chat            Interactive chat (TUI by default)
  natter history         Show the persisted transcript
  natter config          Manage configuration

Inside chat:
  /weather <city>        Current weather
  /calc <expression>     Evaluate arithmetic
  /define <word>         Look up a definition

Plain questions like "what's the weather in London?" are rewritten into
the matching command.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")

	// Add commands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute(ver string) error {
	version = ver
	return rootCmd.Execute()
}

var version string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("natter %s\n", version)
	},
}
