package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage index profiles and collection indexes",
}

var indexProfileCmd = &cobra.Command{
	Use:   "profile [name] [embeddings-client-id] [embeddings-config-id] [vector-db-client-id] [vector-db-config-id]",
	Short: "Create an index profile",
	Long: `Create an index profile from four registry entries and a splitting
strategy given by --size and --overlap.`,
	Args: cobra.ExactArgs(5),
	RunE: runIndexProfile,
}

var indexCreateCmd = &cobra.Command{
	Use:   "create [name] [collection-id] [profile-id]",
	Short: "Bind a collection to an index profile",
	Args:  cobra.ExactArgs(3),
	RunE:  runIndexCreate,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status [index-id]",
	Short: "Show what an index needs to match its collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexStatus,
}

var indexMissingCmd = &cobra.Command{
	Use:   "missing [embeddings-config-id] [doc-id...]",
	Short: "List chunk hashes without a stored vector",
	Long: `List the chunk hashes of the given documents, under the --size and
--overlap strategy, that have no vector stored for the embeddings config.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runIndexMissing,
}

var indexJSON bool

func init() {
	for _, c := range []*cobra.Command{indexProfileCmd, indexMissingCmd} {
		c.Flags().IntVar(&chunkSize, "size", 1000, "chunk size in characters")
		c.Flags().IntVar(&chunkOverlap, "overlap", 200, "overlap between chunks in characters")
	}
	indexCmd.PersistentFlags().BoolVar(&indexJSON, "json", false, "output as JSON")

	indexCmd.AddCommand(indexProfileCmd)
	indexCmd.AddCommand(indexCreateCmd)
	indexCmd.AddCommand(indexStatusCmd)
	indexCmd.AddCommand(indexMissingCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexProfile(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ids, err := parseIDs(args[1:])
	if err != nil {
		return err
	}

	p, err := a.Profiles.Create(cmd.Context(), domain.IndexProfileInput{
		Name:               args[0],
		Splitting:          domain.SplittingByConfig(chunkSize, chunkOverlap),
		EmbeddingsClientID: ids[0],
		EmbeddingsConfigID: ids[1],
		VectorDbClientID:   ids[2],
		VectorDbConfigID:   ids[3],
	})
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if indexJSON {
		return outputJSON(cmd, p)
	}
	cmd.Printf("Created index profile %d: %s (splitting %d)\n", p.ID, p.Name, p.SplittingID)
	return nil
}

func runIndexCreate(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ids, err := parseIDs(args[1:])
	if err != nil {
		return err
	}

	idx, err := a.Indexes.Create(cmd.Context(), args[0], ids[0], ids[1])
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if indexJSON {
		return outputJSON(cmd, idx)
	}
	cmd.Printf("Created index %s: %s\n", idx.ID, idx.Name)
	return nil
}

func runIndexStatus(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	st, err := a.Indexes.SyncStatus(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to compute status: %w", err)
	}
	if indexJSON {
		return outputJSON(cmd, st)
	}
	if st.Clean() {
		cmd.Printf("Index %s is up to date (%d documents)\n", st.IndexID, len(st.All))
		return nil
	}
	cmd.Printf("Index %s:\n", st.IndexID)
	cmd.Printf("  To index:  %d\n", len(st.ToIndex))
	for i := range st.ToIndex {
		cmd.Printf("    %d  %s\n", st.ToIndex[i].ID, st.ToIndex[i].Filename)
	}
	cmd.Printf("  To delete: %d\n", len(st.ToDelete))
	for _, id := range st.ToDelete {
		cmd.Printf("    %d\n", id)
	}
	return nil
}

func runIndexMissing(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	hashes, err := a.Embeddings.Missing(cmd.Context(), ids[0], ids[1:], domain.SplittingByConfig(chunkSize, chunkOverlap))
	if err != nil {
		return fmt.Errorf("failed to list missing embeddings: %w", err)
	}
	if indexJSON {
		return outputJSON(cmd, hashes)
	}
	for _, h := range hashes {
		cmd.Println(h)
	}
	cmd.Printf("Missing: %d\n", len(hashes))
	return nil
}
