package settings

import (
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/gitsumm/gitsumm/internal/logging"
)

// OverridesFile is the per-repository settings file, looked up at the
// repository root.
const OverridesFile = ".gitsumm.yaml"

// Overrides carries repository-local settings. Zero fields leave the stored
// defaults in place; they rank below command-line flags.
type Overrides struct {
	Provider      string `json:"provider,omitempty"`
	Model         string `json:"model,omitempty"`
	Template      string `json:"template,omitempty"`
	CommitCount   int    `json:"commit_count,omitempty"`
	CompareBranch string `json:"compare_branch,omitempty"`
	OutputFormat  string `json:"output_format,omitempty"`
}

// LoadOverrides reads repoPath's overrides file. A missing file is the
// common case and yields zero overrides; a malformed one is logged and
// ignored.
func LoadOverrides(repoPath string, log logging.Logger) Overrides {
	raw, err := os.ReadFile(filepath.Join(repoPath, OverridesFile))
	if err != nil {
		return Overrides{}
	}
	var o Overrides
	if err := yaml.Unmarshal(raw, &o); err != nil {
		log.Error(err, "parsing repository overrides", "file", OverridesFile)
		return Overrides{}
	}
	return o
}
