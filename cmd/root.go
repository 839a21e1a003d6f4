package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calrooms application
var rootCmd = &cobra.Command{
	Use:   "calrooms",
	Short: "Google Calendar rooms addon server",
	Long: `calrooms exposes Google Calendar room scheduling as addon tools:
listing events, creating events, and querying free/busy availability.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (default)
  - A CLI that prints the registered tool descriptors`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calrooms version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
