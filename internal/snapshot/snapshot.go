// Package snapshot persists raw indexes in a bolt database, so a corpus
// scan can be reused across builds without rereading every file.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"packdex/internal/index"
)

var (
	termsBucket = []byte("terms")
	metaBucket  = []byte("meta")
	versionKey  = []byte("schema_version")
)

const schemaVersion = "1"

// Save writes the raw index to path, replacing any previous snapshot.
func Save(path string, ix index.RawIndex) error {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(termsBucket); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		terms, err := tx.CreateBucket(termsBucket)
		if err != nil {
			return err
		}
		for term, refs := range ix {
			data, err := json.Marshal(refs)
			if err != nil {
				return fmt.Errorf("encoding postings for %q: %w", term, err)
			}
			if err := terms.Put([]byte(term), data); err != nil {
				return err
			}
		}
		meta, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}
		return meta.Put(versionKey, []byte(schemaVersion))
	})
}

// Load reads a raw index snapshot written by Save.
func Load(path string) (index.RawIndex, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer db.Close()

	ix := make(index.RawIndex)
	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		if meta == nil {
			return fmt.Errorf("snapshot %s carries no metadata", path)
		}
		if v := string(meta.Get(versionKey)); v != schemaVersion {
			return fmt.Errorf("snapshot %s has schema version %q, want %q", path, v, schemaVersion)
		}
		terms := tx.Bucket(termsBucket)
		if terms == nil {
			return nil
		}
		return terms.ForEach(func(k, v []byte) error {
			var refs []index.DocRef
			if err := json.Unmarshal(v, &refs); err != nil {
				return fmt.Errorf("decoding postings for %q: %w", k, err)
			}
			ix[string(k)] = refs
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ix, nil
}
