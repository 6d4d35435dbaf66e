package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillboxdev/skillbox/pkg/presenter"
	"github.com/skillboxdev/skillbox/pkg/syncer"
)

// SyncConfig holds configuration for the sync command
type SyncConfig struct {
	Source          string
	ExtraSources    []string
	Recursive       bool
	OfficialPlugins bool
	Dest            string
	Mode            string
	Conflict        string
	DryRun          bool
	Prune           bool
	Watch           bool
	Debounce        time.Duration
}

// NewSyncConfig creates a SyncConfig with default values
func NewSyncConfig() *SyncConfig {
	return &SyncConfig{
		Source:   "~/.claude/skills",
		Dest:     "~/.codex/skills",
		Mode:     string(syncer.ModeCopy),
		Conflict: string(syncer.ConflictAsk),
		Debounce: syncer.DefaultDebounce,
	}
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy or sync skills into an agent runtime's skills directory",
	Long: `Copy or sync skill bundles from one or more sources into an agent
runtime's skills directory (default ~/.codex/skills).

Modes:
  copy  one-off import
  sync  repeatable updates; allows --prune to drop destination skills
        missing from every source

Conflict policies for skills that already exist at the destination:
  ask, skip, overwrite, abort

Examples:
  skillbox sync
  skillbox sync --include-official-plugins
  skillbox sync --mode sync --conflict overwrite --prune
  skillbox sync --extra-source ./skills --recursive --dry-run
  skillbox sync --mode sync --conflict overwrite --watch`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getSyncConfigFromFlags(cmd)
		runSync(cmd, config)
	},
}

func init() {
	defaults := NewSyncConfig()
	syncCmd.Flags().String("source", defaults.Source, "Primary skills source directory")
	syncCmd.Flags().StringSlice("extra-source", defaults.ExtraSources, "Additional skills source directories (repeatable)")
	syncCmd.Flags().BoolP("recursive", "r", defaults.Recursive, "Recursively scan sources for SKILL.md (useful for plugin trees)")
	syncCmd.Flags().Bool("include-official-plugins", defaults.OfficialPlugins, "Include official plugin marketplace skills")
	syncCmd.Flags().String("dest", defaults.Dest, "Destination skills directory")
	syncCmd.Flags().StringP("mode", "m", defaults.Mode, "copy: one-off import, sync: repeatable updates")
	syncCmd.Flags().StringP("conflict", "c", defaults.Conflict, "How to handle existing destination skills (ask, skip, overwrite, abort)")
	syncCmd.Flags().Bool("dry-run", defaults.DryRun, "Print planned actions without copying")
	syncCmd.Flags().Bool("prune", defaults.Prune, "Remove destination skills not present in any source (sync mode only)")
	syncCmd.Flags().BoolP("watch", "w", defaults.Watch, "Keep running and re-sync when sources change (implies sync mode)")
	syncCmd.Flags().Duration("debounce", defaults.Debounce, "Delay between a source change and the re-sync it triggers")

	rootCmd.AddCommand(syncCmd)
}

func getSyncConfigFromFlags(cmd *cobra.Command) *SyncConfig {
	config := NewSyncConfig()
	if source, err := cmd.Flags().GetString("source"); err == nil {
		config.Source = source
	}
	if extras, err := cmd.Flags().GetStringSlice("extra-source"); err == nil {
		config.ExtraSources = extras
	}
	if recursive, err := cmd.Flags().GetBool("recursive"); err == nil {
		config.Recursive = recursive
	}
	if official, err := cmd.Flags().GetBool("include-official-plugins"); err == nil {
		config.OfficialPlugins = official
	}
	if dest, err := cmd.Flags().GetString("dest"); err == nil {
		config.Dest = dest
	}
	if mode, err := cmd.Flags().GetString("mode"); err == nil {
		config.Mode = mode
	}
	if conflict, err := cmd.Flags().GetString("conflict"); err == nil {
		config.Conflict = conflict
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	if prune, err := cmd.Flags().GetBool("prune"); err == nil {
		config.Prune = prune
	}
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	if debounce, err := cmd.Flags().GetDuration("debounce"); err == nil {
		config.Debounce = debounce
	}
	return config
}

func buildSyncer(config *SyncConfig) (*syncer.Syncer, error) {
	mode, err := syncer.ParseMode(config.Mode)
	if err != nil {
		return nil, err
	}
	if config.Watch {
		mode = syncer.ModeSync
	}

	conflict, err := syncer.ParseConflictPolicy(config.Conflict)
	if err != nil {
		return nil, err
	}

	sources := []syncer.Source{{Path: expandHome(config.Source), Recursive: config.Recursive}}
	for _, extra := range config.ExtraSources {
		sources = append(sources, syncer.Source{Path: expandHome(extra), Recursive: config.Recursive})
	}

	opts := []syncer.Option{
		syncer.WithSources(sources...),
		syncer.WithDest(expandHome(config.Dest)),
		syncer.WithMode(mode),
		syncer.WithConflictPolicy(conflict),
		syncer.WithDryRun(config.DryRun),
		syncer.WithPrune(config.Prune),
		syncer.WithPrompter(syncer.PrompterFunc(promptConflict)),
	}
	if config.OfficialPlugins {
		opts = append(opts, syncer.WithOfficialPluginRoots())
	}

	return syncer.New(opts...)
}

func runSync(cmd *cobra.Command, config *SyncConfig) {
	s, err := buildSyncer(config)
	if err != nil {
		presenter.Error(err, "Invalid sync configuration")
		os.Exit(1)
	}

	ctx := cmd.Context()

	if config.Watch {
		watcher := syncer.NewWatcher(s,
			syncer.WithDebounce(config.Debounce),
			syncer.WithOnResult(func(result *syncer.Result) {
				printSyncResult(result, config.DryRun, config.Prune)
			}),
		)
		presenter.Info("Watching skill sources... Press Ctrl+C to stop")
		if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
			presenter.Error(err, "Watch failed")
			os.Exit(1)
		}
		return
	}

	skillDirs, sources, err := s.Plan(ctx)
	if err != nil {
		presenter.Error(err, "Sync failed")
		os.Exit(1)
	}

	presenter.Section("Sources")
	for _, source := range sources {
		presenter.Info(fmt.Sprintf("- %s (%s)", source.Path, syncer.SourceTag(source)))
	}
	presenter.Info(fmt.Sprintf("Destination: %s", s.Dest()))
	presenter.Info(fmt.Sprintf("Mode: %s | Conflict: %s | Dry run: %t", s.Mode(), s.Conflict(), s.DryRun()))
	presenter.Info(fmt.Sprintf("Skills found: %d", len(skillDirs)))
	presenter.Separator()

	result, err := s.Run(ctx)
	if err != nil {
		if syncer.IsAborted(err) {
			presenter.Error(err, "Sync aborted")
			os.Exit(2)
		}
		presenter.Error(err, "Sync failed")
		os.Exit(1)
	}

	printSyncResult(result, config.DryRun, config.Prune)
}

func printSyncResult(result *syncer.Result, dryRun, prune bool) {
	for _, action := range result.Actions {
		line := fmt.Sprintf("%s: %s -> %s", strings.ToUpper(string(action.Action)), action.Name, action.Dest)
		if dryRun {
			line = "DRY RUN " + line
		}
		presenter.Info(line)
	}

	presenter.Info(syncSummary(result, prune))
}

// syncSummary renders the run totals. The pruned count appears whenever
// pruning was requested, even when nothing was pruned.
func syncSummary(result *syncer.Result, prune bool) string {
	summary := fmt.Sprintf("Summary: copied %d, overwritten %d, skipped %d",
		result.Copied, result.Overwritten, result.Skipped)
	if prune {
		summary += fmt.Sprintf(", pruned %d", result.Pruned)
	}
	return summary
}

func promptConflict(skillName, destDir string) syncer.ConflictPolicy {
	for {
		response := presenter.Prompt(
			fmt.Sprintf("Conflict: %s exists at %s. Choose [o]verwrite, [s]kip, or [a]bort", skillName, destDir),
		)
		switch strings.ToLower(response) {
		case "o", "overwrite", "y", "yes":
			return syncer.ConflictOverwrite
		case "s", "skip", "", "n", "no":
			return syncer.ConflictSkip
		case "a", "abort", "q", "quit":
			return syncer.ConflictAbort
		}
		presenter.Warning("Please choose 'o', 's', or 'a'.")
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	return path
}
