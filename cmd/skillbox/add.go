package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillboxdev/skillbox/pkg/installer"
	"github.com/skillboxdev/skillbox/pkg/presenter"
)

// AddConfig holds configuration for the add command
type AddConfig struct {
	Global bool
	Dir    string
	Force  bool
}

// NewAddConfig creates an AddConfig with default values
func NewAddConfig() *AddConfig {
	return &AddConfig{}
}

var addCmd = &cobra.Command{
	Use:   "add <owner/repo>[@ref]",
	Short: "Add skills from a GitHub repository",
	Long: `Add skills from a GitHub repository. The repository should contain
directories with SKILL.md files. You can specify:

  - A repo: owner/skills (adds all skills found)
  - A repo with a specific skill: owner/skills --dir skills/pdf-tools
  - A repo at a ref: owner/skills@v0.1.0

Requires the GitHub CLI (gh) to be installed and authenticated.

Examples:
  skillbox add owner/skills
  skillbox add owner/skills --dir skills/pdf-tools
  skillbox add owner/skills@main
  skillbox add owner/skills -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getAddConfigFromFlags(cmd)

		inst := installer.New(
			installer.WithGlobal(config.Global),
			installer.WithForce(config.Force),
			installer.WithSubdir(config.Dir),
		)

		result, err := inst.Install(cmd.Context(), args[0])
		if err != nil {
			presenter.Error(err, "Failed to add skills")
			os.Exit(1)
		}

		for _, name := range result.Skipped {
			presenter.Warning(fmt.Sprintf("Skill '%s' already exists, skipping (use --force to overwrite)", name))
		}
		for _, name := range result.Installed {
			presenter.Success(fmt.Sprintf("Installed skill '%s' to %s", name, result.Root))
		}
		if len(result.Installed) > 0 {
			presenter.Info(fmt.Sprintf("Successfully installed %d skill(s)", len(result.Installed)))
		}
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <skill-name>",
	Short: "Remove an installed skill",
	Long: `Remove an installed skill by directory name.

Examples:
  skillbox remove pdf-tools
  skillbox remove pdf-tools -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		global, _ := cmd.Flags().GetBool("global")

		skillDir, err := installer.Remove(args[0], global)
		if err != nil {
			presenter.Error(err, "Failed to remove skill")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Removed skill '%s' from %s", args[0], skillDir))
	},
}

func init() {
	defaults := NewAddConfig()
	addCmd.Flags().BoolP("global", "g", defaults.Global, "Install to the global ~/.claude/skills directory instead of local ./skills")
	addCmd.Flags().StringP("dir", "d", defaults.Dir, "Path to a specific skill directory within the repository")
	addCmd.Flags().BoolP("force", "f", defaults.Force, "Overwrite skills that already exist")

	removeCmd.Flags().BoolP("global", "g", false, "Remove from the global ~/.claude/skills directory instead of local ./skills")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
}

func getAddConfigFromFlags(cmd *cobra.Command) *AddConfig {
	config := NewAddConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	return config
}
