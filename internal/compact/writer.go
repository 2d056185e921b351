package compact

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Artifact file names inside an index directory.
const (
	PostingsFile = "postings.bin"
	LexiconFile  = "lexicon.bin"
	OffsetsFile  = "postings_offsets.json"
	DocMapsFile  = "doc_maps.json"
)

// docMaps is the JSON shape of the document ID sidecar.
type docMaps struct {
	DocIDMap    map[string]int `json:"doc_id_map"`
	RevDocIDMap []string       `json:"rev_doc_id_map"`
	TermsOrder  []string       `json:"terms_order"`
	BlockSize   int            `json:"block_size"`
}

// Writer persists compressed indexes into a directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter returns a Writer that stores artifacts under dir. The directory
// is created on the first Write.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:    dir,
		logger: slog.Default().With("component", "compact"),
	}
}

// Write stores the four artifacts. Each file goes through a temp file
// renamed into place, so a concurrent reader never observes a partial
// write.
func (w *Writer) Write(ix *Index) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	offsets, err := json.Marshal(ix.Offsets)
	if err != nil {
		return fmt.Errorf("encoding postings offsets: %w", err)
	}
	maps, err := json.Marshal(docMaps{
		DocIDMap:    ix.DocIDs,
		RevDocIDMap: ix.Labels,
		TermsOrder:  ix.Terms,
		BlockSize:   ix.BlockSize,
	})
	if err != nil {
		return fmt.Errorf("encoding doc maps: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{PostingsFile, ix.Postings},
		{LexiconFile, ix.Lexicon},
		{OffsetsFile, offsets},
		{DocMapsFile, maps},
	}
	for _, f := range files {
		if err := w.writeFile(f.name, f.data); err != nil {
			return err
		}
	}

	w.logger.Info("compressed index written",
		"dir", w.dir,
		"terms", len(ix.Terms),
		"docs", len(ix.DocIDs),
		"lexicon_bytes", len(ix.Lexicon),
		"postings_bytes", len(ix.Postings))
	return nil
}

func (w *Writer) writeFile(name string, data []byte) error {
	path := filepath.Join(w.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
