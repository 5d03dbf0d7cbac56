// Package pagestore is the local page store tier storage backend: one
// bbolt bucket per Kind in a single bbolt file, with no separate
// write-ahead log; whether each commit is fsynced follows Options.Sync.
// Missing buckets are lazily created on first write and treated as empty
// on read.
package pagestore

import (
	"bytes"
	"time"

	"go.etcd.io/bbolt"

	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/storage"
)

// Store is the bbolt-backed Backend implementation.
type Store struct {
	db *bbolt.DB
}

// Options configures how the underlying bbolt database is opened.
type Options struct {
	// Sync, when true, fsyncs every commit (bbolt's default). When
	// false the database is opened with NoSync, trading durability for
	// throughput.
	Sync bool
	// Timeout bounds how long Open waits to acquire the file lock.
	Timeout time.Duration
}

func bucketName(kind storage.Kind) []byte {
	return []byte(kind.String())
}

// Open opens (creating if absent) the bbolt database at path.
func Open(path string, opts Options) (*Store, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, diagnostic.StorageIOFailure(err)
	}
	db.NoSync = !opts.Sync
	return &Store{db: db}, nil
}

func (s *Store) Get(kind storage.Kind, key encoding.Key) ([]byte, bool, error) {
	var out []byte
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(kind))
		if b == nil {
			return nil
		}
		v := b.Get(key.Bytes())
		if v != nil {
			out = append([]byte(nil), v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, diagnostic.StorageIOFailure(err)
	}
	return out, found, nil
}

func (s *Store) Contains(kind storage.Kind, key encoding.Key) (bool, error) {
	_, ok, err := s.Get(kind, key)
	return ok, err
}

func (s *Store) Set(batch map[storage.Kind][]storage.Write) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		for kind, writes := range batch {
			b, err := tx.CreateBucketIfNotExists(bucketName(kind))
			if err != nil {
				return err
			}
			for _, w := range writes {
				if w.IsTombstone() {
					if err := b.Delete(w.Key.Bytes()); err != nil {
						return err
					}
					continue
				}
				if err := b.Put(w.Key.Bytes(), w.Value); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return diagnostic.StorageIOFailure(err)
	}
	return nil
}

func (s *Store) rangeNext(kind storage.Kind, cursor *storage.Cursor, r encoding.Range, batchSize int, reverse bool) ([]storage.Entry, bool, error) {
	entries := make([]storage.Entry, 0, batchSize)
	more := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(kind))
		if b == nil {
			return nil
		}
		c := b.Cursor()

		effective := r
		if cursor.LastKey != nil {
			if reverse {
				effective = effective.WithExcludedEnd(*cursor.LastKey)
			} else {
				effective = effective.WithExcludedStart(*cursor.LastKey)
			}
		}

		var k, v []byte
		if reverse {
			k, v = seekLastAtOrBefore(c, effective)
		} else {
			k, v = seekFirstAtOrAfter(c, effective)
		}

		for k != nil {
			key := encoding.NewKey(append([]byte(nil), k...))
			if !effective.Contains(key) {
				break
			}
			if len(entries) >= batchSize {
				more = true
				break
			}
			entries = append(entries, storage.Entry{Key: key, Value: append([]byte(nil), v...)})
			if reverse {
				k, v = c.Prev()
			} else {
				k, v = c.Next()
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, diagnostic.StorageIOFailure(err)
	}

	if len(entries) > 0 {
		last := entries[len(entries)-1].Key
		cursor.LastKey = &last
	}
	if !more {
		cursor.Exhausted = true
	}
	return entries, more, nil
}

// seekFirstAtOrAfter positions c at the first key satisfying r's start
// bound, honoring Included/Excluded.
func seekFirstAtOrAfter(c *bbolt.Cursor, r encoding.Range) ([]byte, []byte) {
	if r.Start.Kind == encoding.Unbounded {
		return c.First()
	}
	k, v := c.Seek(r.Start.Key.Bytes())
	if r.Start.Kind == encoding.Excluded && k != nil && bytes.Equal(k, r.Start.Key.Bytes()) {
		return c.Next()
	}
	return k, v
}

// seekLastAtOrBefore positions c at the last key satisfying r's end bound.
func seekLastAtOrBefore(c *bbolt.Cursor, r encoding.Range) ([]byte, []byte) {
	if r.End.Kind == encoding.Unbounded {
		return c.Last()
	}
	k, v := c.Seek(r.End.Key.Bytes())
	if k == nil {
		// Seek overran the end of the bucket; start from the last key.
		k, v = c.Last()
		if k == nil {
			return nil, nil
		}
		if bytes.Compare(k, r.End.Key.Bytes()) <= 0 {
			if r.End.Kind == encoding.Excluded && bytes.Equal(k, r.End.Key.Bytes()) {
				return c.Prev()
			}
			return k, v
		}
		return c.Prev()
	}
	if bytes.Equal(k, r.End.Key.Bytes()) {
		if r.End.Kind == encoding.Excluded {
			return c.Prev()
		}
		return k, v
	}
	// Seek landed on the first key > end; step back.
	return c.Prev()
}

func (s *Store) RangeNext(kind storage.Kind, cursor *storage.Cursor, r encoding.Range, batchSize int) ([]storage.Entry, bool, error) {
	return s.rangeNext(kind, cursor, r, batchSize, false)
}

func (s *Store) RangeRevNext(kind storage.Kind, cursor *storage.Cursor, r encoding.Range, batchSize int) ([]storage.Entry, bool, error) {
	return s.rangeNext(kind, cursor, r, batchSize, true)
}

func (s *Store) EnsureKind(kind storage.Kind) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName(kind))
		return err
	})
	if err != nil {
		return diagnostic.StorageIOFailure(err)
	}
	return nil
}

func (s *Store) ClearKind(kind storage.Kind) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket(bucketName(kind))
		if err == bbolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return diagnostic.StorageIOFailure(err)
	}
	return nil
}

func (s *Store) Drop(batch map[storage.Kind][]encoding.Key) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		for kind, keys := range batch {
			b := tx.Bucket(bucketName(kind))
			if b == nil {
				continue
			}
			for _, k := range keys {
				if err := b.Delete(k.Bytes()); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return diagnostic.StorageIOFailure(err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return diagnostic.StorageIOFailure(err)
	}
	return nil
}

var _ storage.Backend = (*Store)(nil)
