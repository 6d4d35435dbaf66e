package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple", "pdf-tools", true},
		{"single word", "linting", true},
		{"digits", "mp4-to-gif", true},
		{"single char", "x", true},
		{"uppercase", "PDF-Tools", false},
		{"underscore", "pdf_tools", false},
		{"leading hyphen", "-pdf", false},
		{"trailing hyphen", "pdf-", false},
		{"double hyphen", "pdf--tools", false},
		{"spaces", "pdf tools", false},
		{"empty", "", false},
		{"dot", "pdf.tools", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidName(tt.input), "ValidName(%q)", tt.input)
		})
	}
}

func TestSplitFrontmatter(t *testing.T) {
	t.Run("with frontmatter", func(t *testing.T) {
		content := `---
name: test-skill
description: A test skill
---

# Body

Content here.
`
		frontmatter, body, ok := SplitFrontmatter(content)
		assert.True(t, ok)
		assert.Equal(t, "name: test-skill\ndescription: A test skill", frontmatter)
		assert.Equal(t, "# Body\n\nContent here.\n", body)
	})

	t.Run("without frontmatter", func(t *testing.T) {
		content := "# Just a document\n"
		frontmatter, body, ok := SplitFrontmatter(content)
		assert.False(t, ok)
		assert.Empty(t, frontmatter)
		assert.Equal(t, content, body)
	})

	t.Run("unterminated frontmatter", func(t *testing.T) {
		content := "---\nname: broken\n# never closed\n"
		_, body, ok := SplitFrontmatter(content)
		assert.False(t, ok)
		assert.Equal(t, content, body)
	})

	t.Run("four-dash fence is not frontmatter", func(t *testing.T) {
		content := "----\nname: test\n---\n"
		_, body, ok := SplitFrontmatter(content)
		assert.False(t, ok)
		assert.Equal(t, content, body)
	})

	t.Run("fence with trailing text is not frontmatter", func(t *testing.T) {
		content := "--- junk\nname: test\n---\n"
		_, body, ok := SplitFrontmatter(content)
		assert.False(t, ok)
		assert.Equal(t, content, body)
	})

	t.Run("crlf fence", func(t *testing.T) {
		content := "---\r\nname: test\r\n---\r\n"
		frontmatter, _, ok := SplitFrontmatter(content)
		assert.True(t, ok)
		assert.Equal(t, "name: test\r", frontmatter)
	})

	t.Run("empty body", func(t *testing.T) {
		content := "---\nname: test\n---\n"
		frontmatter, body, ok := SplitFrontmatter(content)
		assert.True(t, ok)
		assert.Equal(t, "name: test", frontmatter)
		assert.Empty(t, body)
	})
}
