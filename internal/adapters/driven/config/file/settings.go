package file

import (
	"os"
	"path/filepath"

	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyDataDir    = "storage.data_dir"
	KeyBlobDir    = "storage.blob_dir"
	KeyLogVerbose = "log.verbose"
	KeyLogFile    = "log.file"
	KeyMCPPort    = "mcp.port"
)

// EnvOverrides maps configuration keys to the environment variables that
// override them.
var EnvOverrides = map[string]string{
	KeyDataDir:    "DOCGRAPH_DATA_DIR",
	KeyBlobDir:    "DOCGRAPH_BLOB_DIR",
	KeyLogVerbose: "DOCGRAPH_VERBOSE",
	KeyLogFile:    "DOCGRAPH_LOG_FILE",
	KeyMCPPort:    "DOCGRAPH_MCP_PORT",
}

// DefaultMCPPort is used when mcp.port is unset.
const DefaultMCPPort = 8080

// Settings are the resolved runtime settings.
type Settings struct {
	DataDir string
	BlobDir string
	Verbose bool
	LogFile string
	MCPPort int
}

// Resolve reads settings from a config store and fills defaults. Empty
// directories default to data and blobs under ~/.docgraph.
func Resolve(cfg driven.ConfigStore) (Settings, error) {
	s := Settings{
		DataDir: cfg.GetString(KeyDataDir),
		BlobDir: cfg.GetString(KeyBlobDir),
		Verbose: cfg.GetBool(KeyLogVerbose),
		LogFile: cfg.GetString(KeyLogFile),
		MCPPort: cfg.GetInt(KeyMCPPort),
	}

	if s.DataDir == "" || s.BlobDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Settings{}, err
		}
		if s.DataDir == "" {
			s.DataDir = filepath.Join(home, ".docgraph", "data")
		}
		if s.BlobDir == "" {
			s.BlobDir = filepath.Join(home, ".docgraph", "blobs")
		}
	}
	if s.MCPPort <= 0 {
		s.MCPPort = DefaultMCPPort
	}
	return s, nil
}
