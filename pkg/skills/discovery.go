package skills

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Discovery handles skill discovery from configured directories
type Discovery struct {
	skillDirs   []string
	pluginRoots []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories. Each directory is scanned one
// level deep: every immediate subdirectory holding a SKILL.md is a skill.
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithPluginRoots adds roots that are scanned recursively for SKILL.md files,
// such as plugin marketplace trees.
func WithPluginRoots(roots ...string) Option {
	return func(d *Discovery) error {
		d.pluginRoots = append(d.pluginRoots, roots...)
		return nil
	}
}

// WithDefaultDirs initializes with default skill directories
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./skills", // Repo-local workspace (highest precedence)
			filepath.Join(homeDir, ".claude", "skills"), // User-global
		}
		return nil
	}
}

// OfficialPluginRoots returns the marketplace directories where officially
// distributed plugin skills live.
func OfficialPluginRoots() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user home directory")
	}
	base := filepath.Join(homeDir, ".claude", "plugins", "marketplaces", "claude-plugins-official")
	return []string{
		filepath.Join(base, "plugins"),
		filepath.Join(base, "external_plugins"),
	}, nil
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(d); err != nil {
			return nil, err
		}
	} else {
		for _, opt := range opts {
			if err := opt(d); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// DiscoverSkills finds all available skills from configured directories.
// The first occurrence of a name wins, so directory order is precedence order.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, dir := range d.skillDirs {
		for _, entry := range ListSkillDirs(dir, false) {
			d.addSkill(entry, skills)
		}
	}

	for _, root := range d.pluginRoots {
		for _, entry := range ListSkillDirs(root, true) {
			d.addSkill(entry, skills)
		}
	}

	return skills, nil
}

func (d *Discovery) addSkill(dir string, skills map[string]*Skill) {
	skill, err := LoadSkill(filepath.Join(dir, SkillFileName))
	if err != nil {
		return
	}
	if _, exists := skills[skill.Name]; !exists {
		skill.Directory = dir
		skills[skill.Name] = skill
	}
}

// ListSkillDirs returns the skill directories under root, sorted by path.
// Direct scans look one level deep; recursive scans walk the whole tree.
// Hidden path components are skipped in both modes.
func ListSkillDirs(root string, recursive bool) []string {
	var dirs []string

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil
		}
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			entryPath := filepath.Join(root, entry.Name())
			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(entryPath, SkillFileName)); err == nil {
				dirs = append(dirs, entryPath)
			}
		}
		return dirs
	}

	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() && path != root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		if !entry.IsDir() && entry.Name() == SkillFileName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	return dirs
}

// GetSkill returns a specific skill by name
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return skill, nil
}

// ListSkillNames returns the names of all available skills
func (d *Discovery) ListSkillNames() ([]string, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}

	return names, nil
}

// LoadSkill loads a single skill from its SKILL.md file
func LoadSkill(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	_, body, _ := SplitFrontmatter(string(content))

	return &Skill{
		Name:        name,
		Description: description,
		Content:     body,
	}, nil
}

// FilterByAllowlist filters skills by an allowlist of names.
// If the allowlist is empty, all skills are returned.
func FilterByAllowlist(skills map[string]*Skill, allowed []string) map[string]*Skill {
	if len(allowed) == 0 {
		return skills
	}

	filtered := make(map[string]*Skill)
	for _, name := range allowed {
		if skill, exists := skills[name]; exists {
			filtered[name] = skill
		}
	}
	return filtered
}
