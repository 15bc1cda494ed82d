package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/altuslabsxyz/musicnft/internal/application/orchestrator"
)

// PutDeployment stores a deployment record. Records cannot be overwritten.
func (s *BoltStore) PutDeployment(ctx context.Context, r *orchestrator.DeploymentRecord) error {
	return s.create(bucketDeployments, r.TransactionHash, r)
}

// GetDeployment retrieves a deployment record by transaction hash.
func (s *BoltStore) GetDeployment(ctx context.Context, txHash string) (*orchestrator.DeploymentRecord, error) {
	var r orchestrator.DeploymentRecord
	if err := s.get(bucketDeployments, txHash, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListDeployments returns deployment records oldest first. An empty network
// matches all networks.
func (s *BoltStore) ListDeployments(ctx context.Context, network string) ([]*orchestrator.DeploymentRecord, error) {
	var records []*orchestrator.DeploymentRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDeployments).ForEach(func(k, v []byte) error {
			var r orchestrator.DeploymentRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("failed to decode deployment %s: %w", k, err)
			}
			if network != "" && r.Network != network {
				return nil
			}
			records = append(records, &r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].BlockNumber < records[j].BlockNumber
		}
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

// LatestDeployment returns the most recent deployment on network.
func (s *BoltStore) LatestDeployment(ctx context.Context, network string) (*orchestrator.DeploymentRecord, error) {
	records, err := s.ListDeployments(ctx, network)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[len(records)-1], nil
}

// PutMint stores a mint record. Records cannot be overwritten.
func (s *BoltStore) PutMint(ctx context.Context, r *orchestrator.MintRecord) error {
	return s.create(bucketMints, r.TransactionHash, r)
}

// GetMint retrieves a mint record by transaction hash.
func (s *BoltStore) GetMint(ctx context.Context, txHash string) (*orchestrator.MintRecord, error) {
	var r orchestrator.MintRecord
	if err := s.get(bucketMints, txHash, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListMints returns mint records oldest first. An empty contract matches
// all contracts.
func (s *BoltStore) ListMints(ctx context.Context, contract string) ([]*orchestrator.MintRecord, error) {
	var records []*orchestrator.MintRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMints).ForEach(func(k, v []byte) error {
			var r orchestrator.MintRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("failed to decode mint %s: %w", k, err)
			}
			if contract != "" && !strings.EqualFold(r.ContractAddress, contract) {
				return nil
			}
			records = append(records, &r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].BlockNumber < records[j].BlockNumber
		}
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

func recordKey(txHash string) []byte {
	return []byte(strings.ToLower(txHash))
}

func (s *BoltStore) create(bucket []byte, txHash string, v interface{}) error {
	if txHash == "" {
		return ErrNoKey
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		key := recordKey(txHash)
		if b.Get(key) != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, txHash)
		}

		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

func (s *BoltStore) get(bucket []byte, txHash string, v interface{}) error {
	return s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get(recordKey(txHash))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, v)
	})
}
