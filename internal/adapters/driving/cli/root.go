// Package cli is the docgraph command tree and its composition root.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docgraph/internal/app"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationNoStore marks commands that never touch the stores.
const annotationNoStore = "docgraph/no-store"

var (
	// application holds the wired services. Injected by SetApp or opened
	// by the root pre-run hook.
	application *app.App
	// opened is true when the pre-run hook opened application itself.
	opened   bool
	settings file.Settings
)

var (
	configDir   string
	dataDirFlag string
	blobDirFlag string
	logFileFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "docgraph",
	Short: "Content-addressed store for documents, chunks and embeddings",
	Long: `docgraph ingests documents into a content-addressed store, splits them
into overlapping chunks and keeps the embedding vectors computed for those
chunks, together with the collections, index profiles and sessions built
on top of them.

Every operation is also available to AI assistants through "docgraph mcp serve".`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docgraph)")
	pf.StringVar(&dataDirFlag, "data-dir", "", "database directory (overrides storage.data_dir)")
	pf.StringVar(&blobDirFlag, "blob-dir", "", "blob directory (overrides storage.blob_dir)")
	pf.StringVar(&logFileFlag, "log-file", "", "write logs to a rotated file instead of stderr")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands observe
// through cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by "docgraph version".
func SetVersion(v string) {
	version = v
}

// SetApp injects wired services. The pre-run hook then leaves the stores
// alone and never reads the config file.
func SetApp(a *app.App) {
	application = a
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)
	if cmd.Annotations[annotationNoStore] == "true" {
		return nil
	}
	if application != nil {
		settings = file.Settings{MCPPort: file.DefaultMCPPort}
		return nil
	}

	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settings, err = file.Resolve(cfg)
	if err != nil {
		return fmt.Errorf("resolving settings: %w", err)
	}
	applyFlags(&settings)

	logger.SetVerbose(settings.Verbose)
	if settings.LogFile != "" {
		if err := logger.SetFile(settings.LogFile); err != nil {
			return err
		}
	}
	logger.Debug("config: %s", cfg.Path())

	a, err := app.Open(settings.DataDir, settings.BlobDir)
	if err != nil {
		return err
	}
	application = a
	opened = true
	return nil
}

// applyFlags lets explicitly set flags win over the config file and env.
func applyFlags(s *file.Settings) {
	if dataDirFlag != "" {
		s.DataDir = dataDirFlag
	}
	if blobDirFlag != "" {
		s.BlobDir = blobDirFlag
	}
	if logFileFlag != "" {
		s.LogFile = logFileFlag
	}
	if verboseFlag {
		s.Verbose = true
	}
}

func teardown(_ *cobra.Command, _ []string) error {
	if !opened {
		return nil
	}
	err := application.Close()
	application = nil
	opened = false
	if settings.LogFile != "" {
		_ = logger.Close()
	}
	return err
}

// requireApp returns the wired services or an error when none are set.
func requireApp() (*app.App, error) {
	if application == nil {
		return nil, fmt.Errorf("services not configured")
	}
	return application, nil
}
