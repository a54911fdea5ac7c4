package config

const (
	KeyConfigDir   = "config_dir"
	KeyLogLevel    = "log_level"
	KeyOllamaURL   = "ollama_url"
	KeyGitHubToken = "github_token"
	KeyHistoryDB   = "history_db"
	KeyHistoryMax  = "history_max"
	KeyTokenBudget = "prompt_token_budget"
	KeyDBDebug     = "db_debug"
)
