package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Manage ingested documents",
	Long:    `Add, list and inspect documents, and split them into chunks.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [file...]",
	Short: "Ingest files, deduplicated by content",
	Long: `Ingest one or more local files. Each file is hashed; a file whose content
is already stored resolves to the existing document and keeps its original
filename.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocumentAdd,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentSplitCmd = &cobra.Command{
	Use:   "split [doc-id]",
	Short: "Split a text document into chunks",
	Long: `Split a document's staged text into overlapping chunks of --size
characters, each overlapping the previous one by --overlap characters, and
store them. A document can be split once per strategy.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentSplit,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "List a document's chunks under one strategy",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var (
	documentCollection int64
	documentJSON       bool
	chunkSize          int
	chunkOverlap       int
)

func init() {
	documentListCmd.Flags().Int64VarP(&documentCollection, "collection", "c", 0, "only documents of this collection")
	documentCmd.PersistentFlags().BoolVar(&documentJSON, "json", false, "output as JSON")
	for _, c := range []*cobra.Command{documentSplitCmd, documentChunksCmd} {
		c.Flags().IntVar(&chunkSize, "size", 1000, "chunk size in characters")
		c.Flags().IntVar(&chunkOverlap, "overlap", 200, "overlap between chunks in characters")
	}

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentSplitCmd)
	documentCmd.AddCommand(documentChunksCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	ids := make([]domain.DocumentIdentity, 0, len(args))
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		ids = append(ids, domain.DocumentIdentity{Filename: filepath.Base(abs), SourcePath: abs})
	}

	docs, err := a.Documents.AddMany(cmd.Context(), ids)
	if err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	if documentJSON {
		return outputJSON(cmd, docs)
	}
	for i := range docs {
		cmd.Printf("  %d  %s  %s\n", docs[i].ID, docs[i].MD5Hash, docs[i].Filename)
	}
	cmd.Printf("Added: %d documents\n", len(docs))
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	var docs []domain.Document
	if documentCollection > 0 {
		docs, err = a.Documents.ListByCollection(cmd.Context(), documentCollection)
	} else {
		docs, err = a.Documents.List(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentJSON {
		return outputJSON(cmd, docs)
	}
	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}
	for i := range docs {
		cmd.Printf("  %d  %s\n", docs[i].ID, docs[i].Filename)
		cmd.Printf("    Hash: %s\n", docs[i].MD5Hash)
	}
	cmd.Println()
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	doc, err := a.Documents.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("document not found: %d", id)
	}

	if documentJSON {
		return outputJSON(cmd, doc)
	}
	cmd.Printf("Document: %d\n", doc.ID)
	cmd.Printf("  Filename: %s\n", doc.Filename)
	cmd.Printf("  Path:     %s\n", doc.Path)
	cmd.Printf("  Hash:     %s\n", doc.MD5Hash)
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	content, err := a.Documents.Content(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get content: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(content)
	return err
}

func runDocumentSplit(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	chunks, err := a.Chunks.SplitDocument(cmd.Context(), id, domain.SplittingByConfig(chunkSize, chunkOverlap))
	if err != nil {
		return fmt.Errorf("failed to split document: %w", err)
	}
	if documentJSON {
		return outputJSON(cmd, chunks)
	}
	cmd.Printf("Stored %d chunks (size %d, overlap %d)\n", len(chunks), chunkSize, chunkOverlap)
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	chunks, err := a.Chunks.List(cmd.Context(), id, domain.SplittingByConfig(chunkSize, chunkOverlap))
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}
	if documentJSON {
		return outputJSON(cmd, chunks)
	}
	if len(chunks) == 0 {
		cmd.Println("No chunks found.")
		return nil
	}
	for i := range chunks {
		cmd.Printf("  [%d] %s  %s\n", chunks[i].Sequence, chunks[i].MD5Hash, preview(chunks[i].Content, 60))
	}
	return nil
}

// preview returns the first n runes of s on one line.
func preview(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' || c == '\t' {
			r[i] = ' '
		}
	}
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return string(r)
}
