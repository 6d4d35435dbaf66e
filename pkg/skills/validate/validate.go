// Package validate checks skill bundles against the workspace layout rules:
// directory naming, SKILL.md frontmatter shape, and the permitted set of
// top-level entries. All violations for a bundle are collected rather than
// stopping at the first problem.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/skillboxdev/skillbox/pkg/skills"
)

// allowedEntries are the only top-level names permitted inside a skill
// bundle besides dotfiles.
var allowedEntries = map[string]bool{
	skills.SkillFileName: true,
	"scripts":            true,
	"references":         true,
	"assets":             true,
}

// Violation describes a single rule breach in a skill bundle
type Violation struct {
	Rule    string // Stable rule identifier
	Message string // Human-readable detail
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// SkillReport collects the violations found in one skill directory
type SkillReport struct {
	Dir        string
	Violations []Violation
}

// OK reports whether the bundle passed every check
func (r *SkillReport) OK() bool {
	return len(r.Violations) == 0
}

func (r *SkillReport) add(rule, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}

// Err flattens the report's violations into a single aggregated error,
// or nil when the bundle is clean.
func (r *SkillReport) Err() error {
	var result *multierror.Error
	for _, v := range r.Violations {
		result = multierror.Append(result, errors.Errorf("%s: %s", filepath.Base(r.Dir), v))
	}
	return result.ErrorOrNil()
}

// Report holds the results for a whole validation run
type Report struct {
	Skills []*SkillReport
}

// OK reports whether every checked bundle passed
func (r *Report) OK() bool {
	for _, s := range r.Skills {
		if !s.OK() {
			return false
		}
	}
	return true
}

// Err aggregates every violation across the run into one error
func (r *Report) Err() error {
	var result *multierror.Error
	for _, s := range r.Skills {
		if err := s.Err(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Dir validates a single skill directory and returns its report.
func Dir(dir string) *SkillReport {
	report := &SkillReport{Dir: dir}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		report.add("skill-dir", "not a directory")
		return report
	}

	dirName := filepath.Base(filepath.Clean(dir))
	if !skills.ValidName(dirName) {
		report.add("dir-name", "directory name %q must match [a-z0-9-]+ with single interior hyphens", dirName)
	}

	checkLayout(dir, report)
	checkFrontmatter(dir, dirName, report)

	return report
}

// Tree validates every directory one level under root. Directories are
// checked whether or not they hold a SKILL.md, so a bundle missing its
// skill file still gets reported.
func Tree(root string) (*Report, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read skills root %s", root)
	}

	var dirs []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !entry.IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Join(root, entry.Name()))
	}
	if len(dirs) == 0 {
		return nil, errors.Errorf("no skills found under %s", root)
	}
	return Paths(dirs)
}

// Paths validates the given skill directories.
func Paths(dirs []string) (*Report, error) {
	if len(dirs) == 0 {
		return nil, errors.New("no skill directories to validate")
	}

	sorted := make([]string, len(dirs))
	copy(sorted, dirs)
	sort.Strings(sorted)

	report := &Report{}
	for _, dir := range sorted {
		report.Skills = append(report.Skills, Dir(dir))
	}
	return report, nil
}

func checkLayout(dir string, report *SkillReport) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		report.add("skill-dir", "failed to read directory: %v", err)
		return
	}

	hasSkillFile := false
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if name == skills.SkillFileName {
			hasSkillFile = true
			continue
		}
		if entry.IsDir() && allowedEntries[name] {
			continue
		}
		report.add("layout", "unexpected entry %q (only SKILL.md, scripts/, references/, assets/ are allowed)", name)
	}

	if !hasSkillFile {
		report.add("skill-file", "missing %s", skills.SkillFileName)
	}
}

func checkFrontmatter(dir, dirName string, report *SkillReport) {
	path := filepath.Join(dir, skills.SkillFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		// Absence is already reported by the layout check.
		return
	}

	raw, _, ok := skills.SplitFrontmatter(string(content))
	if !ok {
		report.add("frontmatter", "%s has no YAML frontmatter block", skills.SkillFileName)
		return
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		report.add("frontmatter", "invalid YAML frontmatter: %v", err)
		return
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key != "name" && key != "description" {
			report.add("frontmatter-keys", "unexpected frontmatter key %q (only name and description are permitted)", key)
		}
	}

	name, _ := fields["name"].(string)
	description, _ := fields["description"].(string)

	if name == "" {
		report.add("frontmatter-keys", "frontmatter must set a non-empty string %q", "name")
	} else if name != dirName {
		report.add("name-mismatch", "frontmatter name %q does not match directory name %q", name, dirName)
	}

	switch {
	case description == "":
		report.add("frontmatter-keys", "frontmatter must set a non-empty string %q", "description")
	case strings.Contains(strings.TrimSpace(description), "\n"):
		report.add("description", "description must be a single line")
	}
}
