package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillboxdev/skillbox/pkg/presenter"
	"github.com/skillboxdev/skillbox/pkg/skills/validate"
)

// ValidateConfig holds configuration for the validate command
type ValidateConfig struct {
	Root string
}

// NewValidateConfig creates a ValidateConfig with default values
func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{
		Root: "skills",
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate [skill-dir...]",
	Short: "Check skill bundles against workspace conventions",
	Long: `Check skill bundles against the workspace conventions:

  - directory names use lowercase letters, digits, and hyphens
  - SKILL.md exists with YAML frontmatter holding exactly name and description
  - the frontmatter name matches the directory name
  - only SKILL.md, scripts/, references/, and assets/ sit at the bundle root

With no arguments, every skill under the skills root is checked.

Examples:
  skillbox validate
  skillbox validate skills/pdf-tools
  skillbox validate --root ../shared/skills`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getValidateConfigFromFlags(cmd)

		var report *validate.Report
		var err error
		if len(args) > 0 {
			report, err = validate.Paths(args)
		} else {
			report, err = validate.Tree(config.Root)
		}
		if err != nil {
			presenter.Error(err, "Validation failed")
			os.Exit(1)
		}

		failed := 0
		for _, skill := range report.Skills {
			if skill.OK() {
				presenter.Success(skill.Dir)
				continue
			}
			failed++
			presenter.Warning(skill.Dir)
			for _, violation := range skill.Violations {
				presenter.Info(fmt.Sprintf("  %s", violation))
			}
		}

		presenter.Separator()
		if failed > 0 {
			presenter.Error(fmt.Errorf("%d of %d skill(s) failed validation", failed, len(report.Skills)), "Validation failed")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("%d skill(s) passed validation", len(report.Skills)))
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().StringP("root", "r", defaults.Root, "Skills root checked when no paths are given")

	rootCmd.AddCommand(validateCmd)
}

func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	config := NewValidateConfig()
	if root, err := cmd.Flags().GetString("root"); err == nil {
		config.Root = root
	}
	return config
}
