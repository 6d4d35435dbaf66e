// Package osutil provides small helpers around host tooling.
package osutil

import (
	"os/exec"

	"github.com/pkg/errors"
)

// ValidateGHCLI checks that the GitHub CLI is installed and authenticated.
func ValidateGHCLI() error {
	if _, err := exec.LookPath("gh"); err != nil {
		return errors.New("gh CLI is not installed: install the GitHub CLI to fetch skills from repositories")
	}
	if err := exec.Command("gh", "auth", "status").Run(); err != nil {
		return errors.New("gh CLI is not authenticated: run 'gh auth login' first")
	}
	return nil
}
