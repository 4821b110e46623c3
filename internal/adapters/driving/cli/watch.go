package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/app"
	"github.com/custodia-labs/docgraph/internal/connectors/filesystem"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/logger"
)

var documentWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest a directory tree and keep ingesting changes",
	Long: `Ingest every regular file under dir, then keep watching it and ingest
files as they are created or rewritten. Hidden files and directories are
skipped. With --once the command stops after the initial walk.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentWatch,
}

var (
	watchCollection int64
	watchRate       float64
	watchOnce       bool
)

func init() {
	documentWatchCmd.Flags().Int64VarP(&watchCollection, "collection", "c", 0, "also add ingested documents to this collection")
	documentWatchCmd.Flags().Float64Var(&watchRate, "rate", 0, "maximum files ingested per second (0 = unlimited)")
	documentWatchCmd.Flags().BoolVar(&watchOnce, "once", false, "stop after the initial walk")
	documentCmd.AddCommand(documentWatchCmd)
}

func runDocumentWatch(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	ctx := cmd.Context()
	if watchCollection > 0 {
		col, err := a.Collections.Get(ctx, watchCollection)
		if err != nil {
			return fmt.Errorf("failed to get collection: %w", err)
		}
		if col == nil {
			return fmt.Errorf("collection not found: %d", watchCollection)
		}
	}

	conn := filesystem.New(root, filesystem.WithRate(watchRate))
	defer conn.Close()

	paths, errs := conn.FullSync(ctx)
	count := 0
	for path := range paths {
		if ingestPath(ctx, cmd, a, path) {
			count++
		}
	}
	if err := <-errs; err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	cmd.Printf("Ingested: %d documents\n", count)

	if watchOnce {
		return nil
	}

	changes, err := conn.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", root)
	for path := range changes {
		ingestPath(ctx, cmd, a, path)
	}
	return nil
}

// ingestPath stores one file and reports whether it succeeded. Failures
// are logged and skipped so one unreadable file does not stop the walk.
func ingestPath(ctx context.Context, cmd *cobra.Command, a *app.App, path string) bool {
	doc, err := a.Documents.GetOrCreate(ctx, domain.DocumentIdentity{
		Filename:   filepath.Base(path),
		SourcePath: path,
	})
	if err != nil {
		logger.Error("ingesting %s: %v", path, err)
		return false
	}
	if watchCollection > 0 {
		if err := a.Collections.AddDocuments(ctx, watchCollection, []int64{doc.ID}); err != nil {
			logger.Error("adding document %d to collection %d: %v", doc.ID, watchCollection, err)
			return false
		}
	}
	cmd.Printf("  %d  %s  %s\n", doc.ID, doc.MD5Hash, path)
	return true
}
