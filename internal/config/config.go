package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load()
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyOllamaURL, "http://localhost:11434")
	viper.SetDefault(KeyHistoryMax, 200)
	viper.SetDefault(KeyTokenBudget, 4096)
	viper.SetDefault(KeyDBDebug, false)
}

func LogLevel() string       { return viper.GetString(KeyLogLevel) }
func OllamaURL() string      { return viper.GetString(KeyOllamaURL) }
func GitHubToken() string    { return viper.GetString(KeyGitHubToken) }
func HistoryMax() int        { return viper.GetInt(KeyHistoryMax) }
func PromptTokenBudget() int { return viper.GetInt(KeyTokenBudget) }
func DBDebug() bool          { return viper.GetBool(KeyDBDebug) }

// ConfigDir returns the directory holding the settings document and the
// summary ledger, defaulting to ~/.config/gitsumm.
func ConfigDir() string {
	if dir := viper.GetString(KeyConfigDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitsumm"
	}
	return filepath.Join(home, ".config", "gitsumm")
}

// SettingsPath returns the location of the persisted settings document.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// HistoryDBPath returns the location of the summary ledger database.
func HistoryDBPath() string {
	if path := viper.GetString(KeyHistoryDB); path != "" {
		return path
	}
	return filepath.Join(ConfigDir(), "history.db")
}

// ProviderAPIKey returns the credential exported through a provider's
// conventional environment variable, e.g. GROQ_API_KEY for "groq".
func ProviderAPIKey(provider string) string {
	return viper.GetString(strings.ToLower(provider) + "_api_key")
}
