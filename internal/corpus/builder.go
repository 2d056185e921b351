package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"packdex/internal/index"
)

// Builder tokenizes corpus files concurrently and accumulates them into a
// raw index. Document references are the file paths relative to the corpus
// root.
type Builder struct {
	workers int
	onFile  func(path string)
	logger  *slog.Logger
}

// NewBuilder returns a Builder running up to workers tokenizers in
// parallel.
func NewBuilder(workers int) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{
		workers: workers,
		logger:  slog.Default().With("component", "corpus"),
	}
}

// OnFile registers a callback invoked after each file is indexed, for
// progress reporting. The callback may run from multiple goroutines.
func (b *Builder) OnFile(fn func(path string)) { b.onFile = fn }

// Result carries the raw index and the corpus counters.
type Result struct {
	Index  index.RawIndex
	Files  int
	Tokens int
}

// Build reads, tokenizes and indexes every file. Paths are relative to
// root.
func (b *Builder) Build(ctx context.Context, root string, files []string) (*Result, error) {
	ib := index.NewBuilder()
	var tokens atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(root, file))
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			terms := Tokenize(string(data))
			tokens.Add(int64(len(terms)))
			ib.Add(index.LabelRef(file), terms)
			if b.onFile != nil {
				b.onFile(file)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Info("corpus indexed",
		"files", len(files), "tokens", tokens.Load(), "terms", ib.Terms())
	return &Result{
		Index:  ib.Snapshot(),
		Files:  len(files),
		Tokens: int(tokens.Load()),
	}, nil
}
