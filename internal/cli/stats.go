package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"packdex/internal/compact"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show sizes and counts for the compressed index",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	r, err := compact.Open(cfg.Index.Dir)
	if err != nil {
		return err
	}
	printIndexStats(cmd.OutOrStdout(), r, cfg.Index.Dir)
	return nil
}

func printIndexStats(out io.Writer, r *compact.Reader, dir string) {
	fmt.Fprintf(out, "Index directory: %s\n", dir)
	fmt.Fprintf(out, "Terms:           %d\n", len(r.Terms()))
	fmt.Fprintf(out, "Documents:       %d\n", r.DocCount())
	fmt.Fprintf(out, "Block size:      %d\n", r.BlockSize())

	var total int64
	for _, name := range []string{compact.PostingsFile, compact.LexiconFile, compact.OffsetsFile, compact.DocMapsFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%-24s %s\n", name+":", human(info.Size()))
		total += info.Size()
	}
	fmt.Fprintf(out, "%-24s %s\n", "total:", human(total))
}

// human renders a byte count with binary units, two decimals.
func human(n int64) string {
	v := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if v < 1024 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.2f TB", v)
}
