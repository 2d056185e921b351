package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"packdex/internal/compact"
	"packdex/internal/query"
)

var (
	searchMode string
	searchIDs  bool
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search <expression>",
	Short: "Run a boolean query against the compressed index",
	Long: `Search evaluates a query against the compressed index and prints the
matching document names, one per line.

The default mode evaluates a boolean expression: operators are OR, AND
and NOT in order of increasing binding strength, parentheses group, any
other word is a search term. Modes and, or and not instead treat every
argument as a plain term.

Examples:
  packdex search gato
  packdex search "(gato OR perro) AND NOT ratón"
  packdex search --mode and gato perro
  packdex search --mode not ratón --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchMode, "mode", "expr", "query mode: expr, and, or, not")
	searchCmd.Flags().BoolVar(&searchIDs, "ids", false, "print internal document IDs instead of names")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	r, err := compact.Open(cfg.Index.Dir)
	if err != nil {
		return err
	}
	engine := query.NewEngine(r)

	var ids []int
	switch searchMode {
	case "expr":
		ids, err = engine.Evaluate(strings.Join(args, " "))
	case "and":
		ids, err = engine.And(args...)
	case "or":
		ids, err = engine.Or(args...)
	case "not":
		ids, err = engine.Not(args...)
	default:
		return fmt.Errorf("unknown mode %q (want expr, and, or, not)", searchMode)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if searchIDs {
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	}
	return printResults(out, query.Names(ids, r.Label), searchJSON)
}

// printResults renders resolved document names as lines or as JSON.
func printResults(out io.Writer, names []string, asJSON bool) error {
	if asJSON {
		payload := struct {
			Count     int      `json:"count"`
			Documents []string `json:"documents"`
		}{len(names), names}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
