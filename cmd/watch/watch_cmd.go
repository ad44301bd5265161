package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	cmdmigrate "github.com/LegacyCodeHQ/ngstandalone/cmd/migrate"
)

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &cmdmigrate.Options{}

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Migrate components again whenever project files change",
		Long: `Watch a project directory and run the standalone migration every time a
TypeScript or HTML file changes.

Examples:
  ngstandalone watch
  ngstandalone watch src/app --dry-run --diff`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runWatch(cmd, opts, root)
		},
	}

	cmdmigrate.AddFlags(cmd, opts)
	return cmd
}

func runWatch(cmd *cobra.Command, opts *cmdmigrate.Options, root string) error {
	settings, err := cmdmigrate.ResolveSettings(cmd, opts, root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var mu sync.Mutex
	migrate := func() {
		mu.Lock()
		defer mu.Unlock()

		if _, err := cmdmigrate.Run(ctx, out, errOut, settings); err != nil {
			fmt.Fprintf(errOut, "migration error: %v\n", err)
		}
	}

	if _, err := cmdmigrate.Run(ctx, out, errOut, settings); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}

	fmt.Fprintf(out, "Watching %s\n", settings.Root)
	fmt.Fprintf(out, "Press Ctrl+C to stop\n")

	return watchAndMigrate(ctx, settings.Root, settings.Exclude, errOut, migrate)
}
