package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillboxdev/skillbox/pkg/packager"
	"github.com/skillboxdev/skillbox/pkg/presenter"
)

// PackageConfig holds configuration for the package command
type PackageConfig struct {
	Excludes []string
}

// NewPackageConfig creates a PackageConfig with default values
func NewPackageConfig() *PackageConfig {
	return &PackageConfig{}
}

var packageCmd = &cobra.Command{
	Use:   "package <skill-dir> [dist-dir]",
	Short: "Package a skill bundle into a distributable archive",
	Long: `Package a skill bundle into a zip archive under the dist directory.

The bundle is validated first; a bundle that breaks workspace conventions
is refused. The archive contains the skill directory as its root entry.

Examples:
  skillbox package skills/pdf-tools
  skillbox package skills/pdf-tools build/dist
  skillbox package skills/pdf-tools --exclude 'references/drafts/**'`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		config := getPackageConfigFromFlags(cmd)

		distDir := "dist"
		if len(args) > 1 {
			distDir = args[1]
		}

		p := packager.New(packager.WithExcludes(config.Excludes...))
		result, err := p.Package(args[0], distDir)
		if err != nil {
			presenter.Error(err, "Failed to package skill")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Packaged skill '%s' to %s", result.SkillName, result.ArchivePath))
		presenter.Info(fmt.Sprintf("Entries: %d", result.Entries))
		presenter.Info(fmt.Sprintf("SHA256:  %s", result.SHA256))
	},
}

func init() {
	defaults := NewPackageConfig()
	packageCmd.Flags().StringSliceP("exclude", "e", defaults.Excludes, "Glob patterns excluded from the archive (repeatable)")

	rootCmd.AddCommand(packageCmd)
}

func getPackageConfigFromFlags(cmd *cobra.Command) *PackageConfig {
	config := NewPackageConfig()
	if excludes, err := cmd.Flags().GetStringSlice("exclude"); err == nil {
		config.Excludes = excludes
	}
	return config
}
