package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitsumm/gitsumm/internal/llm"
	"github.com/gitsumm/gitsumm/internal/prompt"
)

var providerCmd = &cobra.Command{
	Use:   "provider [name]",
	Short: "List available LLM providers or set the active one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets := newSettingsService()
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			current := sets.ActiveProvider()
			fmt.Fprintln(out, "Available LLM providers:")
			for _, name := range llm.Names() {
				if name == current {
					fmt.Fprintf(out, "→ %s (current)\n", name)
				} else {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		}

		if err := sets.SetActiveProvider(args[0]); err != nil {
			if errors.Is(err, llm.ErrUnknownProvider) {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(llm.Names(), ", "))
			}
			return err
		}
		name := llm.Canonical(args[0])
		fmt.Fprintf(out, "✓ Provider set to %s\n", name)
		if llm.NeedsAPIKey(name) && sets.APIKey(name) == "" {
			fmt.Fprintln(out, "No API key found for this provider. Run 'gitsumm setup' to configure.")
		}
		return nil
	},
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage named prompt templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sets := newSettingsService()
		out := cmd.OutOrStdout()

		templates := sets.Templates()
		names := make([]string, 0, len(templates))
		for name := range templates {
			names = append(names, name)
		}
		sort.Strings(names)

		active := sets.ActiveTemplate()
		for _, name := range names {
			if name == active {
				fmt.Fprintf(out, "→ %s (active)\n", name)
			} else {
				fmt.Fprintf(out, "  %s\n", name)
			}
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a template's text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets := newSettingsService()
		text, ok := sets.Template(args[0])
		if !ok {
			return fmt.Errorf("template '%s' not found", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var templateSetCmd = &cobra.Command{
	Use:   "set <name> <text>",
	Short: "Store a template under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, text := args[0], args[1]
		if !strings.Contains(text, prompt.Placeholder) {
			return fmt.Errorf("template must contain the %s placeholder", prompt.Placeholder)
		}
		sets := newSettingsService()
		if err := sets.SetTemplate(name, text); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Template '%s' saved\n", name)
		return nil
	},
}

var templateUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a stored template the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets := newSettingsService()
		if err := sets.SetActiveTemplate(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Active template set to '%s'\n", args[0])
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets := newSettingsService()
		if err := sets.DeleteTemplate(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template '%s' deleted\n", args[0])
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change the invocation defaults",
}

const configKeys = "commit_count, compare_branch, output_format or active_template"

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a default value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets := newSettingsService()
		out := cmd.OutOrStdout()
		switch args[0] {
		case "commit_count":
			fmt.Fprintln(out, sets.CommitCount())
		case "compare_branch":
			fmt.Fprintln(out, sets.CompareBranch())
		case "output_format":
			fmt.Fprintln(out, sets.OutputFormat())
		case "active_template":
			fmt.Fprintln(out, sets.ActiveTemplate())
		default:
			return fmt.Errorf("unknown config key '%s' (expected %s)", args[0], configKeys)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a default value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets := newSettingsService()
		key, value := args[0], args[1]

		var err error
		switch key {
		case "commit_count":
			n, convErr := strconv.Atoi(value)
			if convErr != nil {
				return fmt.Errorf("commit_count must be an integer, got '%s'", value)
			}
			err = sets.SetCommitCount(n)
		case "compare_branch":
			err = sets.SetCompareBranch(value)
		case "output_format":
			err = sets.SetOutputFormat(value)
		case "active_template":
			err = sets.SetActiveTemplate(value)
		default:
			return fmt.Errorf("unknown config key '%s' (expected %s)", key, configKeys)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s set to %s\n", key, value)
		return nil
	},
}
