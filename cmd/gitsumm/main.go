package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitsumm/gitsumm/internal/config"
	"github.com/gitsumm/gitsumm/internal/gitlog"
	"github.com/gitsumm/gitsumm/internal/ledger"
	"github.com/gitsumm/gitsumm/internal/logging"
	"github.com/gitsumm/gitsumm/internal/pullreq"
	"github.com/gitsumm/gitsumm/internal/settings"
	"github.com/gitsumm/gitsumm/internal/summarize"
)

var (
	flagProvider string
	flagAPIKey   string
	flagModel    string
	flagTemplate string
	flagFormat   string
	flagRepo     string
)

var rootCmd = &cobra.Command{
	Use:   "gitsumm",
	Short: "Human-readable summaries of git changes",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider for this invocation (groq, openai, gemini, ollama)")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key for this invocation, overriding stored credentials")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model identifier for this invocation")
	rootCmd.PersistentFlags().StringVar(&flagTemplate, "template", "", "Prompt template name for this invocation")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Output format: text, json or markdown")
	rootCmd.PersistentFlags().StringVar(&flagRepo, "repo", ".", "Path to the git repository")
	config.Init(rootCmd)

	recentCmd.Flags().IntP("count", "n", 0, "Number of commits to summarize (default: the configured commit count)")
	recentCmd.Flags().StringP("branch", "b", "", "Branch to summarize commits from")
	rangeCmd.Flags().String("branch", "", "Branch to read commits from")
	historyCmd.Flags().Int("limit", 20, "Number of entries to show")
	historyPruneCmd.Flags().Int("keep", 50, "Number of entries to keep")
	serveCmd.Flags().String("listen", "", "Serve MCP over HTTP on this address instead of stdio")

	templateCmd.AddCommand(templateListCmd, templateShowCmd, templateSetCmd, templateUseCmd, templateDeleteCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(setupCmd, recentCmd, commitCmd, rangeCmd, compareCmd, prCmd,
		providerCmd, templateCmd, configCmd, historyCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gitsumm: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() logging.Logger {
	return logging.New(logging.DefaultLogger())
}

func newSettingsService() *settings.Service {
	return settings.NewFileService(newLogger())
}

func openLedger(ctx context.Context) (*ledger.Store, error) {
	return ledger.Open(ctx, ledger.Config{
		Path:  config.HistoryDBPath(),
		Max:   config.HistoryMax(),
		Debug: config.DBDebug(),
	})
}

// runEnv carries the collaborators a summary command needs.
type runEnv struct {
	svc    *summarize.Service
	reader *gitlog.Reader
	sets   *settings.Service
	over   settings.Overrides
}

// withRepo opens the repository named by --repo, wires the summary service
// and hands it to fn. A failed ledger open degrades to not recording.
func withRepo(cmd *cobra.Command, fn func(ctx context.Context, env runEnv) error) error {
	log := newLogger()
	sets := settings.NewFileService(log)

	reader, err := gitlog.Open(flagRepo)
	if err != nil {
		return err
	}

	store, err := openLedger(cmd.Context())
	if err != nil {
		log.Error(err, "summary ledger unavailable, summaries will not be recorded")
		store = nil
	} else {
		defer store.Close()
	}

	svc := summarize.NewService(
		summarize.LoadConfig(),
		sets,
		reader,
		store,
		log,
		summarize.WithPullRequestSource(gitHubPullRequestSource(flagRepo)),
	)

	return fn(cmd.Context(), runEnv{
		svc:    svc,
		reader: reader,
		sets:   sets,
		over:   settings.LoadOverrides(flagRepo, log),
	})
}

// gitHubPullRequestSource resolves the origin remote lazily so commands that
// never touch pull requests work without one.
func gitHubPullRequestSource(repoPath string) summarize.PullRequestSource {
	return func(ctx context.Context, number int) (string, error) {
		owner, name, err := pullreq.Origin(repoPath)
		if err != nil {
			return "", err
		}
		client := pullreq.NewGitHubClient(config.GitHubToken())
		return pullreq.NewFetcher(client, owner, name).Extract(ctx, number)
	}
}

// effectiveOptions layers invocation flags over the repo-local overrides.
// Values left empty fall through to the stored settings inside the service.
func effectiveOptions(over settings.Overrides) summarize.Options {
	opts := summarize.Options{
		Provider: over.Provider,
		Model:    over.Model,
		Template: over.Template,
		APIKey:   flagAPIKey,
	}
	if flagProvider != "" {
		opts.Provider = flagProvider
	}
	if flagModel != "" {
		opts.Model = flagModel
	}
	if flagTemplate != "" {
		opts.Template = flagTemplate
	}
	return opts
}

// resolveFormat applies the flags > repo-local file > settings precedence
// and rejects unknown format names before any model call is made.
func resolveFormat(env runEnv) (string, error) {
	format := env.sets.OutputFormat()
	if env.over.OutputFormat != "" {
		format = env.over.OutputFormat
	}
	if flagFormat != "" {
		format = flagFormat
	}
	if !settings.ValidOutputFormat(format) {
		return "", fmt.Errorf("unknown output format '%s' (expected text, json or markdown)", format)
	}
	return format, nil
}
