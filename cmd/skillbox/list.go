package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillboxdev/skillbox/pkg/presenter"
	"github.com/skillboxdev/skillbox/pkg/skills"
)

// ListConfig holds configuration for the list command
type ListConfig struct {
	Dirs            []string
	OfficialPlugins bool
}

// NewListConfig creates a ListConfig with default values
func NewListConfig() *ListConfig {
	return &ListConfig{}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skills",
	Long: `List discovered skills with their names, directory paths, and descriptions.

By default skills are discovered from ./skills and ~/.claude/skills, with
the repo-local directory taking precedence on name collisions.

Examples:
  skillbox list
  skillbox list --dir ../shared/skills
  skillbox list --official-plugins`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)

		opts := []skills.Option{}
		if len(config.Dirs) > 0 {
			opts = append(opts, skills.WithSkillDirs(config.Dirs...))
		} else {
			opts = append(opts, skills.WithDefaultDirs())
		}
		if config.OfficialPlugins {
			roots, err := skills.OfficialPluginRoots()
			if err != nil {
				presenter.Error(err, "Failed to locate official plugin roots")
				os.Exit(1)
			}
			opts = append(opts, skills.WithPluginRoots(roots...))
		}

		discovery, err := skills.NewDiscovery(opts...)
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(1)
		}

		allSkills, err := discovery.DiscoverSkills()
		if err != nil {
			presenter.Error(err, "Failed to discover skills")
			os.Exit(1)
		}

		if len(allSkills) == 0 {
			presenter.Info("No skills found")
			return
		}

		names := make([]string, 0, len(allSkills))
		for name := range allSkills {
			names = append(names, name)
		}
		sort.Strings(names)

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t---------\t-----------")

		for _, name := range names {
			skill := allSkills[name]
			description := skill.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, skill.Directory, description)
		}
		tw.Flush()
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().StringSliceP("dir", "d", defaults.Dirs, "Skills directories to scan (overrides defaults, repeatable)")
	listCmd.Flags().Bool("official-plugins", defaults.OfficialPlugins, "Also scan official plugin marketplace skills")

	rootCmd.AddCommand(listCmd)
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if dirs, err := cmd.Flags().GetStringSlice("dir"); err == nil {
		config.Dirs = dirs
	}
	if official, err := cmd.Flags().GetBool("official-plugins"); err == nil {
		config.OfficialPlugins = official
	}
	return config
}
