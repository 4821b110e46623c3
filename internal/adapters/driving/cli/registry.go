package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage embeddings and vector database registries",
	Long: `Manage the four configuration registries: embeddings_client,
embeddings_config, vector_db_client and vector_db_config. Entries are
opaque to docgraph; --meta holds provider specific settings as JSON.`,
}

var registryAddCmd = &cobra.Command{
	Use:   "add [kind] [name] [type]",
	Short: "Add a registry entry",
	Args:  cobra.ExactArgs(3),
	RunE:  runRegistryAdd,
}

var registryListCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List a registry",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryList,
}

var (
	registryMeta string
	registryType string
	registryJSON bool
)

func init() {
	registryAddCmd.Flags().StringVar(&registryMeta, "meta", "", "entry metadata as a JSON object")
	registryListCmd.Flags().StringVar(&registryType, "type", "", "only entries with this type tag")
	registryCmd.PersistentFlags().BoolVar(&registryJSON, "json", false, "output as JSON")

	registryCmd.AddCommand(registryAddCmd)
	registryCmd.AddCommand(registryListCmd)
	rootCmd.AddCommand(registryCmd)
}

func registryFor(regs driving.Registries, kind string) (driving.RegistryService, error) {
	k := domain.RegistryKind(kind)
	if !k.IsValid() {
		return nil, fmt.Errorf("unknown registry %q", kind)
	}
	return regs[k], nil
}

func runRegistryAdd(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	svc, err := registryFor(a.Registries, args[0])
	if err != nil {
		return err
	}

	var meta map[string]any
	if registryMeta != "" {
		if err := json.Unmarshal([]byte(registryMeta), &meta); err != nil {
			return fmt.Errorf("invalid --meta: %w", err)
		}
	}

	e, err := svc.Create(cmd.Context(), domain.RegistryInput{Name: args[1], Type: args[2], Meta: meta})
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}
	if registryJSON {
		return outputJSON(cmd, e)
	}
	cmd.Printf("Added %s %d: %s (%s)\n", e.Kind, e.ID, e.Name, e.Type)
	return nil
}

func runRegistryList(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	svc, err := registryFor(a.Registries, args[0])
	if err != nil {
		return err
	}

	var entries []domain.RegistryEntry
	if registryType != "" {
		entries, err = svc.ListByType(cmd.Context(), registryType)
	} else {
		entries, err = svc.List(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	if registryJSON {
		return outputJSON(cmd, entries)
	}
	if len(entries) == 0 {
		cmd.Println("No entries found.")
		return nil
	}
	for i := range entries {
		cmd.Printf("  %d  %s (%s)\n", entries[i].ID, entries[i].Name, entries[i].Type)
	}
	return nil
}
