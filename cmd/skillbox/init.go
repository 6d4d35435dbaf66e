package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillboxdev/skillbox/pkg/presenter"
	"github.com/skillboxdev/skillbox/pkg/scaffold"
)

// InitConfig holds configuration for the init command
type InitConfig struct {
	Path  string
	Force bool
}

// NewInitConfig creates an InitConfig with default values
func NewInitConfig() *InitConfig {
	return &InitConfig{
		Path:  "skills",
		Force: false,
	}
}

var initCmd = &cobra.Command{
	Use:   "init <skill-name>",
	Short: "Scaffold a new skill bundle",
	Long: `Scaffold a new skill bundle under the skills directory.

Creates <path>/<skill-name>/ with a SKILL.md template plus scripts/,
references/, and assets/ subdirectories. Skill names use lowercase
letters, digits, and hyphens.

Examples:
  skillbox init pdf-tools
  skillbox init release-notes --path ../shared/skills
  skillbox init pdf-tools --force`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getInitConfigFromFlags(cmd)

		s := scaffold.New(scaffold.WithForce(config.Force))
		skillDir, err := s.Create(args[0], config.Path)
		if err != nil {
			presenter.Error(err, "Failed to scaffold skill")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Created skill '%s' at %s", args[0], skillDir))
		presenter.Info("Edit SKILL.md to fill in the description and instructions.")
	},
}

func init() {
	defaults := NewInitConfig()
	initCmd.Flags().StringP("path", "p", defaults.Path, "Parent directory for the new skill")
	initCmd.Flags().BoolP("force", "f", defaults.Force, "Replace the skill directory if it already exists")

	rootCmd.AddCommand(initCmd)
}

func getInitConfigFromFlags(cmd *cobra.Command) *InitConfig {
	config := NewInitConfig()
	if path, err := cmd.Flags().GetString("path"); err == nil {
		config.Path = path
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	return config
}
