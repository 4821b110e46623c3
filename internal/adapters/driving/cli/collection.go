package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage collections",
	Long:  `Create collections of documents and change their membership.`,
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create [name] [doc-id...]",
	Short: "Create a collection",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCollectionCreate,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections with their indexes",
	Args:  cobra.NoArgs,
	RunE:  runCollectionList,
}

var collectionRenameCmd = &cobra.Command{
	Use:   "rename [collection-id] [name]",
	Short: "Rename a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionRename,
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete [collection-id]",
	Short: "Delete a collection",
	Long:  `Delete a collection together with its indexes and their sessions. Documents are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDelete,
}

var collectionAddCmd = &cobra.Command{
	Use:   "add [collection-id] [doc-id...]",
	Short: "Add documents to a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCollectionAdd,
}

var collectionRemoveCmd = &cobra.Command{
	Use:   "remove [collection-id] [doc-id...]",
	Short: "Remove documents from a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCollectionRemove,
}

var collectionJSON bool

func init() {
	collectionCmd.PersistentFlags().BoolVar(&collectionJSON, "json", false, "output as JSON")

	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionRenameCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionRemoveCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionCreate(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	docIDs, err := parseIDs(args[1:])
	if err != nil {
		return err
	}

	c, err := a.Collections.Create(cmd.Context(), args[0], docIDs)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	if collectionJSON {
		return outputJSON(cmd, c)
	}
	cmd.Printf("Created collection %d: %s\n", c.ID, c.Name)
	return nil
}

func runCollectionList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	cols, err := a.Collections.ListWithIndexes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if collectionJSON {
		return outputJSON(cmd, cols)
	}
	if len(cols) == 0 {
		cmd.Println("No collections found.")
		return nil
	}
	for i := range cols {
		cmd.Printf("  %d  %s\n", cols[i].ID, cols[i].Name)
		for _, idx := range cols[i].Indexes {
			cmd.Printf("    Index: %s (%s, profile %d)\n", idx.ID, idx.Name, idx.IndexProfileID)
		}
	}
	return nil
}

func runCollectionRename(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := a.Collections.Rename(cmd.Context(), id, args[1])
	if err != nil {
		return fmt.Errorf("failed to rename collection: %w", err)
	}
	cmd.Printf("Renamed collection %d to %s\n", c.ID, c.Name)
	return nil
}

func runCollectionDelete(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.Collections.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	cmd.Printf("Deleted collection %d\n", id)
	return nil
}

func runCollectionAdd(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	if err := a.Collections.AddDocuments(cmd.Context(), ids[0], ids[1:]); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	cmd.Printf("Added %d documents to collection %d\n", len(ids)-1, ids[0])
	return nil
}

func runCollectionRemove(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	n, err := a.Collections.RemoveDocuments(cmd.Context(), ids[0], ids[1:])
	if err != nil {
		return fmt.Errorf("failed to remove documents: %w", err)
	}
	cmd.Printf("Removed %d documents from collection %d\n", n, ids[0])
	return nil
}
