package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"packdex/internal/compact"
	"packdex/internal/query"
	"packdex/pkg/health"
	"packdex/pkg/metrics"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive search menu over the compressed index",
	Long: `Shell loads the compressed index once and then answers queries from an
interactive menu until you quit. With metrics enabled in the
configuration it also serves Prometheus metrics while it runs.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	r, err := compact.Open(cfg.Index.Dir)
	if err != nil {
		return err
	}
	engine := query.NewEngine(r)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.DocsIndexed.Set(float64(r.DocCount()))
		m.TermsIndexed.Set(float64(len(r.Terms())))
		for artifact, name := range map[string]string{
			"lexicon":  compact.LexiconFile,
			"postings": compact.PostingsFile,
		} {
			if info, err := os.Stat(filepath.Join(cfg.Index.Dir, name)); err == nil {
				m.ArtifactBytes.WithLabelValues(artifact).Set(float64(info.Size()))
			}
		}

		checker := health.NewChecker()
		checker.Register("artifacts", func(ctx context.Context) error {
			for _, name := range []string{compact.PostingsFile, compact.OffsetsFile, compact.DocMapsFile} {
				if _, err := os.Stat(filepath.Join(cfg.Index.Dir, name)); err != nil {
					return err
				}
			}
			return nil
		})
		checker.Register("dictionary", func(ctx context.Context) error {
			if len(r.Terms()) == 0 {
				return fmt.Errorf("dictionary is empty")
			}
			return nil
		})

		shutdown := metrics.StartServer(cfg.Metrics.Port,
			metrics.Route{Pattern: "GET /health/live", Handler: checker.LiveHandler()},
			metrics.Route{Pattern: "GET /health/ready", Handler: checker.ReadyHandler()},
		)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			shutdown(ctx)
		}()
	}

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintf(out, "Compressed index: %d terms, %d documents\n", len(r.Terms()), r.DocCount())
	if len(r.Terms()) == 0 {
		fmt.Fprintln(out, "Warning: the dictionary is empty, NOT queries are disabled")
	}

	for {
		printMenu(out)
		choice, ok := readLine(in, out, "Select an option: ")
		if !ok {
			return in.Err()
		}
		switch choice {
		case "0":
			word, ok := readLine(in, out, "Word to look up: ")
			if !ok {
				return in.Err()
			}
			if word == "" {
				fmt.Fprintln(out, "A word is required.")
				continue
			}
			ids, err := instrument(m, "lookup", func() ([]int, error) { return engine.Lookup(word) })
			printResult(out, r, ids, err)
		case "1":
			terms, ok := readTerms(in, out)
			if !ok {
				return in.Err()
			}
			ids, err := instrument(m, "and", func() ([]int, error) { return engine.And(terms...) })
			printResult(out, r, ids, err)
		case "2":
			terms, ok := readTerms(in, out)
			if !ok {
				return in.Err()
			}
			ids, err := instrument(m, "or", func() ([]int, error) { return engine.Or(terms...) })
			printResult(out, r, ids, err)
		case "3":
			terms, ok := readTerms(in, out)
			if !ok {
				return in.Err()
			}
			ids, err := instrument(m, "not", func() ([]int, error) { return engine.Not(terms...) })
			printResult(out, r, ids, err)
		case "4":
			fmt.Fprintln(out, "Example: (gato OR perro) AND NOT ratón")
			expr, ok := readLine(in, out, "Boolean query: ")
			if !ok {
				return in.Err()
			}
			ids, err := instrument(m, "boolean", func() ([]int, error) { return engine.Evaluate(expr) })
			printResult(out, r, ids, err)
		case "5":
			for _, term := range r.Terms() {
				fmt.Fprintln(out, term)
			}
		case "6":
			printIndexStats(out, r, cfg.Index.Dir)
		case "7":
			fmt.Fprintln(out, "Bye.")
			return nil
		default:
			fmt.Fprintln(out, "Invalid option, try again.")
		}
	}
}

func printMenu(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Compressed index search ===")
	fmt.Fprintln(out, "0. Look up a single word")
	fmt.Fprintln(out, "1. Search with AND")
	fmt.Fprintln(out, "2. Search with OR")
	fmt.Fprintln(out, "3. Search with NOT")
	fmt.Fprintln(out, "4. Boolean query ((), AND, OR, NOT)")
	fmt.Fprintln(out, "5. List dictionary terms")
	fmt.Fprintln(out, "6. Index stats")
	fmt.Fprintln(out, "7. Quit")
}

func readLine(in *bufio.Scanner, out io.Writer, prompt string) (string, bool) {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

func readTerms(in *bufio.Scanner, out io.Writer) ([]string, bool) {
	line, ok := readLine(in, out, "Terms separated by spaces: ")
	if !ok {
		return nil, false
	}
	return strings.Fields(line), true
}

// instrument wraps a query with the optional metrics collectors.
func instrument(m *metrics.Metrics, kind string, fn func() ([]int, error)) ([]int, error) {
	start := time.Now()
	ids, err := fn()
	if m != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.QueriesTotal.WithLabelValues(kind, status).Inc()
		m.QueryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if err == nil {
			m.QueryResults.Observe(float64(len(ids)))
		}
	}
	return ids, err
}

func printResult(out io.Writer, r *compact.Reader, ids []int, err error) {
	if err != nil {
		fmt.Fprintf(out, "Query error: %v\n", err)
		return
	}
	names := query.Names(ids, r.Label)
	fmt.Fprintf(out, "Documents found (%d): %s\n", len(names), strings.Join(names, ", "))
}
