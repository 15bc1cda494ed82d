// Package store persists deployment and mint records in a BoltDB file.
// Records are write-once and keyed by transaction hash.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultFileName is the database file name inside the home directory.
const DefaultFileName = "records.db"

// Bucket names
var (
	bucketDeployments = []byte("deployments")
	bucketMints       = []byte("mints")
)

// BoltStore stores records using BoltDB.
type BoltStore struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Initialize buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketDeployments, bucketMints} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// OpenInHome opens the default database file inside homeDir, creating the
// directory when needed.
func OpenInHome(homeDir string) (*BoltStore, error) {
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	return Open(filepath.Join(homeDir, DefaultFileName))
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
