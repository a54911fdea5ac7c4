package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gitsumm/gitsumm/internal/config"
	"github.com/gitsumm/gitsumm/internal/llm"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively configure the provider, API key and model",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	sets := newSettingsService()
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	names := llm.Names()
	fmt.Fprintf(out, "Available LLM providers: %s, or %s\n",
		strings.Join(names[:len(names)-1], ", "), names[len(names)-1])

	provider, err := promptLine(in, out, "Select LLM provider", sets.ActiveProvider())
	if err != nil {
		return err
	}
	if err := sets.SetActiveProvider(provider); err != nil {
		return err
	}
	provider = llm.Canonical(provider)

	if llm.NeedsAPIKey(provider) {
		fmt.Fprintf(out, "Please provide your %s API key:\n", capitalize(provider))
		fmt.Fprintf(out, "(the key is stored locally in %s)\n", config.SettingsPath())

		if sets.APIKey(provider) != "" {
			update, err := promptYesNo(in, out, "API key already exists. Update it?")
			if err != nil {
				return err
			}
			if update {
				key, err := promptSecret(in, out, "API Key")
				if err != nil {
					return err
				}
				sets.SetAPIKey(provider, key)
				fmt.Fprintln(out, "API key updated.")
			} else {
				fmt.Fprintln(out, "Keeping existing API key.")
			}
		} else {
			key, err := promptSecret(in, out, "API Key")
			if err != nil {
				return err
			}
			sets.SetAPIKey(provider, key)
			fmt.Fprintln(out, "API key saved.")
		}
	} else {
		fmt.Fprintln(out, "Using local Ollama instance (make sure Ollama is installed and running)")
	}

	model, err := promptLine(in, out, fmt.Sprintf("Model for %s", provider), sets.Model(provider))
	if err != nil {
		return err
	}
	sets.SetModel(provider, model)

	fmt.Fprintln(out, "✓ Setup complete!")
	fmt.Fprintf(out, "Using %s with model %s\n", provider, model)
	return nil
}

// promptLine asks for one line of input, returning def when the answer is
// empty.
func promptLine(in *bufio.Reader, out io.Writer, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func promptYesNo(in *bufio.Reader, out io.Writer, label string) (bool, error) {
	answer, err := promptLine(in, out, label+" [y/N]", "")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// promptSecret reads without echo on a terminal and falls back to a plain
// line read when stdin is redirected.
func promptSecret(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
