// Package syncer copies or synchronizes skill bundles from one or more
// source roots into an agent runtime's skills directory, with conflict
// policies, pruning, and dry-run support.
package syncer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillboxdev/skillbox/pkg/logger"
	"github.com/skillboxdev/skillbox/pkg/skills"
)

// Mode selects between a one-off import and a repeatable sync
type Mode string

const (
	// ModeCopy performs a one-off import
	ModeCopy Mode = "copy"
	// ModeSync performs a repeatable update and permits pruning
	ModeSync Mode = "sync"
)

// ConflictPolicy decides what happens when a destination skill already exists
type ConflictPolicy string

const (
	// ConflictAsk prompts interactively per conflict
	ConflictAsk ConflictPolicy = "ask"
	// ConflictSkip leaves the existing destination skill untouched
	ConflictSkip ConflictPolicy = "skip"
	// ConflictOverwrite replaces the existing destination skill
	ConflictOverwrite ConflictPolicy = "overwrite"
	// ConflictAbort stops the whole run on the first conflict
	ConflictAbort ConflictPolicy = "abort"
)

// Action is the outcome recorded for a single skill
type Action string

const (
	// ActionCopy means the skill was copied fresh into the destination
	ActionCopy Action = "copy"
	// ActionOverwrite means an existing destination skill was replaced
	ActionOverwrite Action = "overwrite"
	// ActionSkip means the skill was left alone
	ActionSkip Action = "skip"
)

// ErrAborted is returned when a conflict is resolved as abort.
var ErrAborted = errors.New("aborted on conflict")

// IsAborted reports whether err came from an abort conflict resolution.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

// Source is a skills root to read from
type Source struct {
	Path      string
	Recursive bool
}

// Prompter resolves ask-policy conflicts. Decide returns the policy to apply
// for the named skill: skip, overwrite, or abort.
type Prompter interface {
	Decide(skillName, destDir string) ConflictPolicy
}

// PrompterFunc adapts a function to the Prompter interface
type PrompterFunc func(skillName, destDir string) ConflictPolicy

// Decide calls the underlying function
func (f PrompterFunc) Decide(skillName, destDir string) ConflictPolicy {
	return f(skillName, destDir)
}

// SkillAction records what happened to one skill during a run
type SkillAction struct {
	Name   string
	Source string
	Dest   string
	Action Action
}

// Result summarizes a sync run
type Result struct {
	Sources     []Source // Sources that existed and were scanned
	Dest        string
	Actions     []SkillAction
	Copied      int
	Overwritten int
	Skipped     int
	Pruned      int
}

// Syncer copies skills from sources to a destination root
type Syncer struct {
	sources  []Source
	dest     string
	mode     Mode
	conflict ConflictPolicy
	dryRun   bool
	prune    bool
	prompter Prompter
}

// Option is a function that configures a Syncer
type Option func(*Syncer) error

// WithSources sets the skills roots to read from
func WithSources(sources ...Source) Option {
	return func(s *Syncer) error {
		s.sources = append(s.sources, sources...)
		return nil
	}
}

// WithOfficialPluginRoots appends the official plugin marketplace roots,
// which are always scanned recursively.
func WithOfficialPluginRoots() Option {
	return func(s *Syncer) error {
		roots, err := skills.OfficialPluginRoots()
		if err != nil {
			return err
		}
		for _, root := range roots {
			s.sources = append(s.sources, Source{Path: root, Recursive: true})
		}
		return nil
	}
}

// WithDest sets the destination skills root
func WithDest(dest string) Option {
	return func(s *Syncer) error {
		s.dest = dest
		return nil
	}
}

// WithMode sets copy or sync mode
func WithMode(mode Mode) Option {
	return func(s *Syncer) error {
		switch mode {
		case ModeCopy, ModeSync:
			s.mode = mode
			return nil
		default:
			return errors.Errorf("invalid mode %q: expected copy or sync", mode)
		}
	}
}

// WithConflictPolicy sets how existing destination skills are handled
func WithConflictPolicy(policy ConflictPolicy) Option {
	return func(s *Syncer) error {
		switch policy {
		case ConflictAsk, ConflictSkip, ConflictOverwrite, ConflictAbort:
			s.conflict = policy
			return nil
		default:
			return errors.Errorf("invalid conflict policy %q: expected ask, skip, overwrite, or abort", policy)
		}
	}
}

// WithDryRun plans actions without touching the filesystem
func WithDryRun(dryRun bool) Option {
	return func(s *Syncer) error {
		s.dryRun = dryRun
		return nil
	}
}

// WithPrune removes destination skills absent from every source.
// Only valid in sync mode.
func WithPrune(prune bool) Option {
	return func(s *Syncer) error {
		s.prune = prune
		return nil
	}
}

// WithPrompter sets the resolver used for the ask conflict policy
func WithPrompter(p Prompter) Option {
	return func(s *Syncer) error {
		s.prompter = p
		return nil
	}
}

// New creates a Syncer
func New(opts ...Option) (*Syncer, error) {
	s := &Syncer{
		mode:     ModeCopy,
		conflict: ConflictAsk,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if len(s.sources) == 0 {
		return nil, errors.New("at least one source is required")
	}
	if s.dest == "" {
		return nil, errors.New("destination is required")
	}
	if s.prune && s.mode != ModeSync {
		return nil, errors.New("prune is only valid in sync mode")
	}

	return s, nil
}

// ResolveSources returns the configured sources that exist and are
// directories. Missing or non-directory sources are logged and dropped.
func (s *Syncer) ResolveSources(ctx context.Context) []Source {
	var valid []Source
	for _, source := range s.sources {
		info, err := os.Stat(source.Path)
		if err != nil {
			logger.G(ctx).WithField("source", source.Path).Debug("skipping missing source")
			continue
		}
		if !info.IsDir() {
			logger.G(ctx).WithField("source", source.Path).Warn("skipping non-directory source")
			continue
		}
		valid = append(valid, source)
	}
	return valid
}

// Plan returns the skill directories the run would consider, in source order.
func (s *Syncer) Plan(ctx context.Context) ([]string, []Source, error) {
	valid := s.ResolveSources(ctx)
	if len(valid) == 0 {
		return nil, nil, errors.New("no valid sources found")
	}

	var skillDirs []string
	for _, source := range valid {
		skillDirs = append(skillDirs, skills.ListSkillDirs(source.Path, source.Recursive)...)
	}
	return skillDirs, valid, nil
}

// Run executes the sync and returns its result. A conflict resolved as abort
// returns ErrAborted wrapped with the offending skill, alongside the partial
// result accumulated so far.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	skillDirs, valid, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Sources: valid,
		Dest:    s.dest,
	}

	if len(skillDirs) == 0 {
		return result, nil
	}

	if _, err := os.Stat(s.dest); os.IsNotExist(err) && !s.dryRun {
		if err := os.MkdirAll(s.dest, 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create destination directory")
		}
	}

	handled := make(map[string]bool, len(skillDirs))
	for _, skillDir := range skillDirs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// First source wins; a duplicate name later in the list is not
		// a destination conflict.
		name := filepath.Base(skillDir)
		if handled[name] {
			logger.G(ctx).WithField("skill", name).Debug("duplicate skill name, keeping earlier source")
			continue
		}
		handled[name] = true

		action, err := s.syncSkill(skillDir)
		if err != nil {
			return result, err
		}

		result.Actions = append(result.Actions, SkillAction{
			Name:   filepath.Base(skillDir),
			Source: skillDir,
			Dest:   filepath.Join(s.dest, filepath.Base(skillDir)),
			Action: action,
		})
		switch action {
		case ActionCopy:
			result.Copied++
		case ActionOverwrite:
			result.Overwritten++
		case ActionSkip:
			result.Skipped++
		}
	}

	if s.mode == ModeSync && s.prune {
		pruned, err := s.pruneDest(skillDirs)
		if err != nil {
			return result, err
		}
		result.Pruned = pruned
	}

	return result, nil
}

func (s *Syncer) syncSkill(skillDir string) (Action, error) {
	destDir := filepath.Join(s.dest, filepath.Base(skillDir))
	action := ActionCopy

	if _, err := os.Stat(destDir); err == nil {
		decision := s.resolveConflict(filepath.Base(skillDir), destDir)
		switch decision {
		case ConflictSkip:
			return ActionSkip, nil
		case ConflictAbort:
			return ActionSkip, errors.Wrapf(ErrAborted, "skill %q already exists at %s", filepath.Base(skillDir), destDir)
		case ConflictOverwrite:
			action = ActionOverwrite
			if !s.dryRun {
				if err := os.RemoveAll(destDir); err != nil {
					return ActionSkip, errors.Wrap(err, "failed to remove existing skill")
				}
			}
		}
	}

	if s.dryRun {
		return action, nil
	}

	if err := copyDir(skillDir, destDir); err != nil {
		return ActionSkip, errors.Wrapf(err, "failed to copy skill %q", filepath.Base(skillDir))
	}
	return action, nil
}

func (s *Syncer) resolveConflict(skillName, destDir string) ConflictPolicy {
	if s.conflict != ConflictAsk {
		return s.conflict
	}
	// Dry runs must stay non-interactive; count an unresolved conflict
	// as a skip so the preview is complete.
	if s.dryRun || s.prompter == nil {
		return ConflictSkip
	}
	return s.prompter.Decide(skillName, destDir)
}

func (s *Syncer) pruneDest(sourceSkillDirs []string) (int, error) {
	sourceNames := make(map[string]bool, len(sourceSkillDirs))
	for _, dir := range sourceSkillDirs {
		sourceNames[filepath.Base(dir)] = true
	}

	pruned := 0
	for _, destSkill := range skills.ListSkillDirs(s.dest, false) {
		if sourceNames[filepath.Base(destSkill)] {
			continue
		}
		if !s.dryRun {
			if err := os.RemoveAll(destSkill); err != nil {
				return pruned, errors.Wrapf(err, "failed to prune %s", destSkill)
			}
		}
		pruned++
	}
	return pruned, nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, info.Mode())
		}

		return copyFile(path, destPath, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// Dest returns the destination root.
func (s *Syncer) Dest() string {
	return s.dest
}

// Mode returns the configured mode.
func (s *Syncer) Mode() Mode {
	return s.mode
}

// Conflict returns the configured conflict policy.
func (s *Syncer) Conflict() ConflictPolicy {
	return s.conflict
}

// DryRun reports whether the syncer only plans actions.
func (s *Syncer) DryRun() bool {
	return s.dryRun
}

// SourceTag describes a source for display purposes.
func SourceTag(source Source) string {
	if source.Recursive {
		return "recursive"
	}
	return "direct"
}

// ParseMode parses a mode string.
func ParseMode(raw string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case ModeCopy, ModeSync:
		return mode, nil
	}
	return "", errors.Errorf("invalid mode %q: expected copy or sync", raw)
}

// ParseConflictPolicy parses a conflict policy string.
func ParseConflictPolicy(raw string) (ConflictPolicy, error) {
	policy := ConflictPolicy(strings.ToLower(strings.TrimSpace(raw)))
	switch policy {
	case ConflictAsk, ConflictSkip, ConflictOverwrite, ConflictAbort:
		return policy, nil
	}
	return "", errors.Errorf("invalid conflict policy %q: expected ask, skip, overwrite, or abort", raw)
}
