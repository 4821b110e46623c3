package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/codec"
)

var hashCmd = &cobra.Command{
	Use:   "hash [file...]",
	Short: "Print MD5 hashes of files or text",
	Long: `Print the lowercase hex MD5 of each file, streamed, or of --text.
These are the hashes docgraph uses as document and chunk identities.`,
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE:        runHash,
}

var hashText string

func init() {
	hashCmd.Flags().StringVarP(&hashText, "text", "t", "", "hash this UTF-8 string")
	rootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	if hashText == "" && len(args) == 0 {
		return fmt.Errorf("provide a file or --text")
	}
	if hashText != "" {
		cmd.Printf("%s  -\n", codec.HashString(hashText))
	}
	for _, path := range args {
		h, err := codec.HashFile(path)
		if err != nil {
			return err
		}
		cmd.Printf("%s  %s\n", h, path)
	}
	return nil
}
