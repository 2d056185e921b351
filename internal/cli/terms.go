package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"packdex/internal/compact"
)

var termsPrefix string

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List the dictionary terms in sorted order",
	Args:  cobra.NoArgs,
	RunE:  runTerms,
}

func init() {
	termsCmd.Flags().StringVar(&termsPrefix, "prefix", "", "only list terms starting with this prefix")
	rootCmd.AddCommand(termsCmd)
}

func runTerms(cmd *cobra.Command, args []string) error {
	r, err := compact.Open(cfg.Index.Dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, term := range r.Terms() {
		if termsPrefix != "" && !strings.HasPrefix(term, termsPrefix) {
			continue
		}
		fmt.Fprintln(out, term)
	}
	return nil
}
