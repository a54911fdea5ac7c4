package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Summarize the most recent commits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, func(ctx context.Context, env runEnv) error {
			format, err := resolveFormat(env)
			if err != nil {
				return err
			}

			count, _ := cmd.Flags().GetInt("count")
			if count <= 0 {
				count = env.over.CommitCount
			}
			branch, _ := cmd.Flags().GetString("branch")

			res, err := env.svc.RecentCommits(ctx, count, branch, effectiveOptions(env.over))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), format, res)
		})
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit <hash>",
	Short: "Summarize a single commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, func(ctx context.Context, env runEnv) error {
			format, err := resolveFormat(env)
			if err != nil {
				return err
			}

			res, err := env.svc.Commit(ctx, args[0], effectiveOptions(env.over))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), format, res)
		})
	},
}

var rangeCmd = &cobra.Command{
	Use:   "range <start> <end>",
	Short: "Summarize the commits between two dates (YYYY-MM-DD, both inclusive)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, func(ctx context.Context, env runEnv) error {
			format, err := resolveFormat(env)
			if err != nil {
				return err
			}

			branch, _ := cmd.Flags().GetString("branch")

			res, err := env.svc.CommitRange(ctx, args[0], args[1], branch, effectiveOptions(env.over))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), format, res)
		})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [base] [compare]",
	Short: "Summarize what a branch adds over a base branch",
	Long: `Summarize what a branch adds over a base branch.

With two arguments they name the base and the branch to compare. With one
argument the configured compare branch is the base. With none, the checked-out
branch is compared against the configured base.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, func(ctx context.Context, env runEnv) error {
			format, err := resolveFormat(env)
			if err != nil {
				return err
			}

			base, compare, err := compareArgs(env, args)
			if err != nil {
				return err
			}

			res, err := env.svc.CompareBranches(ctx, base, compare, effectiveOptions(env.over))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), format, res)
		})
	},
}

// compareArgs resolves the base and compare branch names from the positional
// arguments, falling back to the configured base and the checked-out branch.
func compareArgs(env runEnv, args []string) (base, compare string, err error) {
	base = env.sets.CompareBranch()
	if env.over.CompareBranch != "" {
		base = env.over.CompareBranch
	}
	switch len(args) {
	case 2:
		return args[0], args[1], nil
	case 1:
		return base, args[0], nil
	default:
		compare, err = env.reader.CurrentBranch()
		return base, compare, err
	}
}

var prCmd = &cobra.Command{
	Use:   "pr <number>",
	Short: "Summarize a pull request of the origin remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("pull request number must be an integer, got '%s'", args[0])
		}

		return withRepo(cmd, func(ctx context.Context, env runEnv) error {
			format, err := resolveFormat(env)
			if err != nil {
				return err
			}

			res, err := env.svc.PullRequest(ctx, number, effectiveOptions(env.over))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), format, res)
		})
	},
}
