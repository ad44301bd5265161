package vocabulary

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/ngstandalone/icons"
	"github.com/LegacyCodeHQ/ngstandalone/vocabulary"
)

// Cmd represents the vocabulary command.
var Cmd = NewCommand()

// NewCommand returns a new vocabulary command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocabulary",
		Short: "List the Ionic elements the migration knows",
		Long: `List every Ionic element the migration resolves, with the standalone
symbol and module it is imported from.

Examples:
  ngstandalone vocabulary`,
		Args: cobra.NoArgs,
		RunE: runVocabulary,
	}

	return cmd
}

func runVocabulary(cmd *cobra.Command, _ []string) error {
	for _, entry := range vocabulary.Entries() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", entry.TagName, entry.Symbol, entry.ModulePath); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "icons -> %s (%s), constants from %s\n",
		icons.RegistrationSymbol, icons.RegistrationModule, icons.ConstantsModule)
	return err
}
