package migrate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/ngstandalone/internal/config"
	"github.com/LegacyCodeHQ/ngstandalone/internal/logging"
	"github.com/LegacyCodeHQ/ngstandalone/migrate"
	"github.com/LegacyCodeHQ/ngstandalone/project"
)

// Options holds the migrate flags. Flags left unset fall back to the config
// file and the environment.
type Options struct {
	ConfigPath string
	DryRun     bool
	Diff       bool
	Verbose    bool
	Workers    int
}

// Settings is the effective configuration of one run.
type Settings struct {
	Root     string
	DryRun   bool
	Diff     bool
	Verbose  bool
	Workers  int
	LogLevel string
	Exclude  []string
}

// Cmd represents the migrate command.
var Cmd = NewCommand()

// NewCommand returns a new migrate command instance.
func NewCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "migrate [path]",
		Short: "Migrate Ionic components to standalone imports",
		Long: `Migrate the Ionic components of an Angular project to standalone imports.

Every component template is scanned for Ionic elements and icons. Standalone
components get the matching imports, an imports array entry and an addIcons
call in the constructor. Modules that declare a single component replace
their IonicModule import with the components that component uses.

Examples:
  ngstandalone migrate
  ngstandalone migrate src/app --dry-run --diff`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			settings, err := ResolveSettings(cmd, opts, root)
			if err != nil {
				return err
			}

			_, err = Run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), settings)
			return err
		},
	}

	AddFlags(cmd, opts)
	return cmd
}

// AddFlags registers the flags shared by every command that runs a migration.
func AddFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default: .ngstandalone.yaml in the project or $HOME)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Compute changes without writing files")
	cmd.Flags().BoolVarP(&opts.Diff, "diff", "d", false, "Print a diff of every changed file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log debug output and list unchanged files")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Files processed in parallel (default: number of CPUs)")
}

// ResolveSettings merges flags over the loaded configuration.
func ResolveSettings(cmd *cobra.Command, opts *Options, root string) (Settings, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	configDir := absRoot
	if info, err := os.Stat(absRoot); err == nil && !info.IsDir() {
		configDir = filepath.Dir(absRoot)
	}

	cfg, err := config.LoadConfig(opts.ConfigPath, configDir)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		Root:     absRoot,
		DryRun:   cfg.DryRun,
		Diff:     cfg.Diff,
		Workers:  cfg.Workers,
		LogLevel: cfg.LogLevel,
		Exclude:  cfg.Exclude,
	}

	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		settings.DryRun = opts.DryRun
	}
	if flags.Changed("diff") {
		settings.Diff = opts.Diff
	}
	if flags.Changed("workers") {
		settings.Workers = opts.Workers
	}
	if opts.Verbose {
		settings.Verbose = true
		settings.LogLevel = "debug"
	}

	return settings, nil
}

// Run loads the project below settings.Root, migrates it and prints a summary.
func Run(ctx context.Context, out, errOut io.Writer, settings Settings) (*migrate.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(errOut, settings.LogLevel)
	if err != nil {
		return nil, err
	}

	p, err := project.Load(settings.Root, project.LoadOptions{ExcludeDirs: settings.Exclude})
	if err != nil {
		return nil, err
	}
	logger.Debug("project loaded", "root", p.Root(), "files", len(p.Files()))

	report, err := migrate.MigrateComponents(ctx, p, migrate.Options{
		DryRun:  settings.DryRun,
		Workers: settings.Workers,
		Logger:  logger,
	})
	if err != nil {
		return report, err
	}

	if settings.Diff {
		for _, result := range report.Changed() {
			if err := writeDiff(out, relativePath(p.Root(), result.Path), result.Before, result.After); err != nil {
				return report, err
			}
		}
	}

	return report, writeSummary(out, p.Root(), report, settings)
}

func writeSummary(w io.Writer, root string, report *migrate.Report, settings Settings) error {
	changed := color.New(color.FgGreen)
	skipped := color.New(color.FgYellow)
	unchanged := color.New(color.Faint)

	var changedCount, skippedCount, unchangedCount int
	for _, result := range report.Results {
		path := relativePath(root, result.Path)

		var err error
		switch result.Status {
		case migrate.Changed:
			changedCount++
			_, err = changed.Fprintf(w, "migrated  %s (%s)\n", path, result.Kind)
		case migrate.Skipped:
			skippedCount++
			_, err = skipped.Fprintf(w, "skipped   %s: %s\n", path, result.Reason)
		default:
			unchangedCount++
			if settings.Verbose {
				_, err = unchanged.Fprintf(w, "unchanged %s: %s\n", path, result.Reason)
			}
		}
		if err != nil {
			return err
		}
	}

	suffix := ""
	if settings.DryRun {
		suffix = " (dry run, nothing written)"
	}
	_, err := fmt.Fprintf(w, "%d changed, %d unchanged, %d skipped%s\n", changedCount, unchangedCount, skippedCount, suffix)
	return err
}

func relativePath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
