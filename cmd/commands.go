package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zirconconsole/zircon/internal/presentation"
)

var cmdNamespace string

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List every command the console can call",
	Long: `List the registered functions and enums as JSON.

Use --namespace to list only the functions of one namespace.

Examples:
  # List everything
  zircon commands

  # Only the log namespace
  zircon commands --namespace log
  zircon commands -n log

  # Parse specific fields with jq
  zircon commands | jq '.commands[].signature'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := buildRegistry()
		if err != nil {
			return err
		}
		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		return formatter.FormatCatalog(presentation.FromRegistry(reg, cmdNamespace))
	},
}

func init() {
	commandsCmd.Flags().StringVarP(&cmdNamespace, "namespace", "n", "", "Only list functions in this namespace (e.g., log)")
	rootCmd.AddCommand(commandsCmd)
}
