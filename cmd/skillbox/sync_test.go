package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillboxdev/skillbox/pkg/syncer"
)

func TestSyncSummary(t *testing.T) {
	result := &syncer.Result{Copied: 2, Overwritten: 1, Skipped: 3}

	t.Run("without prune", func(t *testing.T) {
		assert.Equal(t, "Summary: copied 2, overwritten 1, skipped 3", syncSummary(result, false))
	})

	t.Run("prune requested with nothing pruned", func(t *testing.T) {
		assert.Equal(t, "Summary: copied 2, overwritten 1, skipped 3, pruned 0", syncSummary(result, true))
	})

	t.Run("prune requested with pruned skills", func(t *testing.T) {
		pruned := &syncer.Result{Copied: 1, Pruned: 2}
		assert.Equal(t, "Summary: copied 1, overwritten 0, skipped 0, pruned 2", syncSummary(pruned, true))
	})
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester/.codex/skills", expandHome("~/.codex/skills"))
	assert.Equal(t, "/home/tester", expandHome("~"))
	assert.Equal(t, "/absolute/path", expandHome("/absolute/path"))
	assert.Equal(t, "relative/skills", expandHome("relative/skills"))
}
