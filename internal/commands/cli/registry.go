// Package cli provides centralized command registration.
package cli

import (
	"github.com/andrei-cloud/go_arqc/internal/commands/cli/arqc"
	"github.com/andrei-cloud/go_arqc/internal/commands/cli/card"
	"github.com/andrei-cloud/go_arqc/internal/commands/cli/keys"
	"github.com/andrei-cloud/go_arqc/internal/commands/cli/server"
	"github.com/spf13/cobra"
)

// RegisterCommands registers all root commands.
func RegisterCommands(root *cobra.Command) error {
	root.AddCommand(arqc.NewGenerateCommand())
	root.AddCommand(arqc.NewVerifyCommand())
	root.AddCommand(keys.NewKeysCommand())
	root.AddCommand(card.NewIADCommand())
	root.AddCommand(card.NewSchemeCommand())
	root.AddCommand(server.NewServeCommand())

	return nil
}
