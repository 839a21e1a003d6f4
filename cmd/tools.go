package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fbenoist/calrooms/internal/addon"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the registered tool descriptors as JSON",
		Long: `Print the descriptor set of the addon's built-in tools, including the
input schema derived for each action. Useful for inspecting what an MCP
client will see.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			a := addon.New(logger)
			a.LoadTools(a.BuiltinTools())

			raw, err := json.MarshalIndent(a.Tools(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode tool descriptors: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}
