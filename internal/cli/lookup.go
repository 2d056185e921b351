package cli

import (
	"github.com/spf13/cobra"

	"packdex/internal/compact"
	"packdex/internal/query"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <term>",
	Short: "List the documents containing a single term",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	r, err := compact.Open(cfg.Index.Dir)
	if err != nil {
		return err
	}
	ids, err := query.NewEngine(r).Lookup(args[0])
	if err != nil {
		return err
	}
	return printResults(cmd.OutOrStdout(), query.Names(ids, r.Label), lookupJSON)
}
