// Package skills models skill bundles: directories containing a SKILL.md
// file with YAML frontmatter that describes the bundle to an agent runtime.
// A bundle may additionally carry scripts/, references/, and assets/
// subdirectories next to its SKILL.md.
package skills

import (
	"regexp"
	"strings"
)

// SkillFileName is the required metadata file at the root of every skill bundle.
const SkillFileName = "SKILL.md"

// namePattern restricts skill names to lowercase ASCII letters, digits and
// single interior hyphens.
var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Skill represents a discovered skill bundle with its metadata
type Skill struct {
	Name        string // Unique name from frontmatter
	Description string // Brief description of what the skill is for
	Directory   string // Full path to the skill directory
	Content     string // Body of SKILL.md with the frontmatter stripped
}

// Metadata represents the YAML frontmatter in SKILL.md files.
// Only name and description are permitted.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ValidName reports whether name is an acceptable skill directory name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// SplitFrontmatter splits a SKILL.md document into its raw YAML frontmatter
// and body. ok is false when the document has no frontmatter block.
func SplitFrontmatter(content string) (frontmatter, body string, ok bool) {
	lines := strings.Split(content, "\n")
	// The opening fence must be exactly "---"; "----" or trailing text
	// does not open a frontmatter block.
	if strings.TrimRight(lines[0], "\r") != "---" {
		return "", content, false
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return "", content, false
	}

	frontmatter = strings.Join(lines[1:end], "\n")
	body = strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
	return frontmatter, body, true
}
