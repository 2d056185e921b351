package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"packdex/internal/compact"
	"packdex/internal/corpus"
	"packdex/internal/index"
	"packdex/internal/snapshot"
	"packdex/pkg/tracing"
)

var (
	buildFromRaw   string
	buildSaveRaw   string
	buildBlockSize int
)

var buildCmd = &cobra.Command{
	Use:   "build [corpus-dir]",
	Short: "Index a corpus and write the compressed artifacts",
	Long: `Build scans a corpus directory, tokenizes every matching file and writes
the compressed artifacts (postings.bin, lexicon.bin,
postings_offsets.json, doc_maps.json) to the configured index
directory.

Examples:
  packdex build ./corpus
  packdex build --from-raw raw.db          # Compress a saved raw snapshot
  packdex build ./corpus --save-raw raw.db # Also keep the raw index`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildFromRaw, "from-raw", "", "compress a raw index snapshot (bolt database) instead of scanning a corpus")
	buildCmd.Flags().StringVar(&buildSaveRaw, "save-raw", "", "save the raw index snapshot to this bolt database")
	buildCmd.Flags().IntVar(&buildBlockSize, "block-size", 0, "front coding block size (defaults to the configured value)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	start := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, span := tracing.StartSpan(ctx, "build")
	defer func() {
		span.End()
		span.Log()
	}()

	var raw index.RawIndex
	var scanned *corpus.Result

	if buildFromRaw != "" {
		var err error
		raw, err = snapshot.Load(buildFromRaw)
		if err != nil {
			return fmt.Errorf("loading raw snapshot: %w", err)
		}
	} else {
		dir := "corpus"
		if len(args) > 0 {
			dir = args[0]
		}
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("corpus directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("corpus path %s is not a directory", dir)
		}

		_, scanSpan := tracing.StartChild(ctx, "scan")
		files, err := corpus.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes).Walk(dir)
		scanSpan.End()
		if err != nil {
			return fmt.Errorf("scanning corpus: %w", err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no corpus files matched under %s", dir)
		}
		scanSpan.SetAttr("files", len(files))

		builder := corpus.NewBuilder(cfg.Corpus.Workers)
		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Indexing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
		)
		builder.OnFile(func(string) { bar.Add(1) })

		indexCtx, indexSpan := tracing.StartChild(ctx, "index")
		scanned, err = builder.Build(indexCtx, dir, files)
		indexSpan.End()
		if err != nil {
			return fmt.Errorf("indexing corpus: %w", err)
		}
		indexSpan.SetAttr("tokens", scanned.Tokens)
		raw = scanned.Index
	}

	if buildSaveRaw != "" {
		if err := snapshot.Save(buildSaveRaw, raw); err != nil {
			return fmt.Errorf("saving raw snapshot: %w", err)
		}
		fmt.Fprintf(out, "Raw index snapshot saved to: %s\n", buildSaveRaw)
	}

	rawStats := raw.Stats()
	fmt.Fprintln(out, "=== Uncompressed index ===")
	if scanned != nil {
		fmt.Fprintf(out, "Files indexed:   %d\n", scanned.Files)
		fmt.Fprintf(out, "Tokens read:     %d\n", scanned.Tokens)
	}
	fmt.Fprintf(out, "Unique terms:    %d\n", rawStats.Terms)
	fmt.Fprintf(out, "Total postings:  %d\n", rawStats.Postings)
	fmt.Fprintf(out, "Estimated size:  %s\n", human(int64(rawStats.EstimatedSize)))

	blockSize := cfg.Index.BlockSize
	if buildBlockSize > 0 {
		blockSize = buildBlockSize
	}
	_, compressSpan := tracing.StartChild(ctx, "compress")
	ix, err := compact.Compress(raw, blockSize)
	compressSpan.End()
	if err != nil {
		return fmt.Errorf("compressing index: %w", err)
	}
	compressSpan.SetAttr("terms", len(ix.Terms))

	st := ix.Stats()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Compressed index ===")
	fmt.Fprintf(out, "Documents:       %d\n", st.Docs)
	fmt.Fprintf(out, "Lexicon bytes:   %s\n", human(int64(st.LexiconBytes)))
	fmt.Fprintf(out, "Postings bytes:  %s\n", human(int64(st.PostingsBytes)))
	fmt.Fprintf(out, "Total in memory: %s\n", human(int64(st.TotalBytes)))

	_, writeSpan := tracing.StartChild(ctx, "write")
	err = compact.NewWriter(cfg.Index.Dir).Write(ix)
	writeSpan.End()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Compressed index written to: %s\n", cfg.Index.Dir)
	for _, name := range []string{compact.LexiconFile, compact.PostingsFile} {
		if info, err := os.Stat(filepath.Join(cfg.Index.Dir, name)); err == nil {
			fmt.Fprintf(out, "On disk %-22s %s\n", name+":", human(info.Size()))
		}
	}
	fmt.Fprintf(out, "Build took %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
