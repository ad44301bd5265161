package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/ngstandalone/cmd/migrate"
	"github.com/LegacyCodeHQ/ngstandalone/cmd/vocabulary"
	"github.com/LegacyCodeHQ/ngstandalone/cmd/watch"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ngstandalone",
		Short: "Migrate Ionic Angular components to standalone imports",
		Long: `ngstandalone rewrites the components of an Ionic Angular project so that
every Ionic element and icon used in a template is imported explicitly.

Use 'ngstandalone --help' to see all available commands, or
'ngstandalone <command> --help' for detailed information about a specific command.`,
		Version:       version,
		SilenceUsage:  true,
	}

	cmd.AddCommand(migrate.NewCommand())
	cmd.AddCommand(vocabulary.NewCommand())
	cmd.AddCommand(watch.NewCommand())

	// Initialize annotations for version template
	cmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
