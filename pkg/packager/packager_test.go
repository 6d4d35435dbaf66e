package packager

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBundle(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "references"), 0o755))

	content := "---\nname: " + name + "\ndescription: A packaged skill\n---\n\n# " + name + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "run.sh"), []byte("#!/bin/sh\necho ok\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "references", "guide.md"), []byte("# Guide\n"), 0o644))
	return dir
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	var names []string
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	return names
}

func TestPackage(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := writeBundle(t, tmpDir, "pdf-tools")
	distDir := filepath.Join(tmpDir, "dist")

	result, err := New().Package(skillDir, distDir)
	require.NoError(t, err)

	assert.Equal(t, "pdf-tools", result.SkillName)
	assert.Equal(t, filepath.Join(distDir, "pdf-tools.zip"), result.ArchivePath)
	assert.Equal(t, 3, result.Entries)
	assert.Len(t, result.SHA256, 64)

	names := archiveNames(t, result.ArchivePath)
	assert.Equal(t, []string{
		"pdf-tools/SKILL.md",
		"pdf-tools/references/guide.md",
		"pdf-tools/scripts/run.sh",
	}, names)
}

func TestPackageRefusesInvalidBundle(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "broken-skill")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("# no frontmatter\n"), 0o644))

	_, err := New().Package(skillDir, filepath.Join(tmpDir, "dist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")

	_, statErr := os.Stat(filepath.Join(tmpDir, "dist", "broken-skill.zip"))
	assert.True(t, os.IsNotExist(statErr), "no archive should be written for a broken bundle")
}

func TestPackageExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := writeBundle(t, tmpDir, "pdf-tools")
	require.NoError(t, os.MkdirAll(filepath.Join(skillDir, "references", "drafts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "references", "drafts", "wip.md"), []byte("draft\n"), 0o644))

	p := New(WithExcludes("references/drafts/**"))
	result, err := p.Package(skillDir, filepath.Join(tmpDir, "dist"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Entries)
	assert.NotContains(t, archiveNames(t, result.ArchivePath), "pdf-tools/references/drafts/wip.md")
}

func TestPackageSkipsHiddenAndJunk(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := writeBundle(t, tmpDir, "pdf-tools")
	require.NoError(t, os.MkdirAll(filepath.Join(skillDir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, ".git", "HEAD"), []byte("ref\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, ".DS_Store"), []byte("junk"), 0o644))

	result, err := New().Package(skillDir, filepath.Join(tmpDir, "dist"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Entries)
}

func TestPackageInvalidExcludePattern(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := writeBundle(t, tmpDir, "pdf-tools")

	p := New(WithExcludes("[invalid"))
	_, err := p.Package(skillDir, filepath.Join(tmpDir, "dist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}
