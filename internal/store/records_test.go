package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/altuslabsxyz/musicnft/internal/application/orchestrator"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func deployment(hash, network string, ts time.Time) *orchestrator.DeploymentRecord {
	return &orchestrator.DeploymentRecord{
		ID:              "id-" + hash,
		Network:         network,
		ContractAddress: "0x00000000000000000000000000000000000000C1",
		TransactionHash: hash,
		BlockNumber:     7,
		Timestamp:       ts,
		ContractInfo:    orchestrator.ContractInfo{Name: "MusicNFT", MaxSupply: "10000"},
	}
}

func TestBoltStore_PutDeployment(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := deployment("0xAA01", "monadTestnet", time.Now().UTC())
	if err := s.PutDeployment(ctx, rec); err != nil {
		t.Fatalf("PutDeployment: %v", err)
	}

	// Lookup is case-insensitive on the hash.
	got, err := s.GetDeployment(ctx, "0xaa01")
	if err != nil {
		t.Fatalf("GetDeployment: %v", err)
	}
	if got.ContractInfo.MaxSupply != "10000" {
		t.Errorf("MaxSupply = %q, want %q", got.ContractInfo.MaxSupply, "10000")
	}
}

func TestBoltStore_PutDeployment_WriteOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := deployment("0xaa02", "monadTestnet", time.Now().UTC())
	if err := s.PutDeployment(ctx, rec); err != nil {
		t.Fatalf("PutDeployment: %v", err)
	}

	rec.ContractInfo.Name = "Changed"
	err := s.PutDeployment(ctx, rec)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second PutDeployment error = %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetDeployment(ctx, "0xaa02")
	if err != nil {
		t.Fatalf("GetDeployment: %v", err)
	}
	if got.ContractInfo.Name != "MusicNFT" {
		t.Errorf("Name = %q, record was overwritten", got.ContractInfo.Name)
	}
}

func TestBoltStore_PutDeployment_NoHash(t *testing.T) {
	s := openTestStore(t)
	if err := s.PutDeployment(context.Background(), deployment("", "x", time.Now())); !errors.Is(err, ErrNoKey) {
		t.Fatalf("error = %v, want ErrNoKey", err)
	}
}

func TestBoltStore_GetDeployment_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetDeployment(context.Background(), "0xmissing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestBoltStore_LatestDeployment(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	for _, rec := range []*orchestrator.DeploymentRecord{
		deployment("0x03", "monadTestnet", base.Add(2*time.Hour)),
		deployment("0x01", "monadTestnet", base),
		deployment("0x04", "other", base.Add(3*time.Hour)),
		deployment("0x02", "monadTestnet", base.Add(time.Hour)),
	} {
		if err := s.PutDeployment(ctx, rec); err != nil {
			t.Fatalf("PutDeployment: %v", err)
		}
	}

	latest, err := s.LatestDeployment(ctx, "monadTestnet")
	if err != nil {
		t.Fatalf("LatestDeployment: %v", err)
	}
	if latest.TransactionHash != "0x03" {
		t.Errorf("latest = %s, want 0x03", latest.TransactionHash)
	}

	all, err := s.ListDeployments(ctx, "")
	if err != nil {
		t.Fatalf("ListDeployments: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(all) = %d, want 4", len(all))
	}
	if all[0].TransactionHash != "0x01" {
		t.Errorf("first = %s, want 0x01", all[0].TransactionHash)
	}

	if _, err := s.LatestDeployment(ctx, "nowhere"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestBoltStore_Mints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mint := &orchestrator.MintRecord{
		ContractAddress: "0x00000000000000000000000000000000000000C1",
		TransactionHash: "0xbb01",
		TokenID:         "1",
		UserTokens:      []string{"1"},
		Timestamp:       time.Now().UTC(),
	}
	if err := s.PutMint(ctx, mint); err != nil {
		t.Fatalf("PutMint: %v", err)
	}
	if err := s.PutMint(ctx, mint); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate PutMint error = %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetMint(ctx, "0xbb01")
	if err != nil {
		t.Fatalf("GetMint: %v", err)
	}
	if got.TokenID != "1" {
		t.Errorf("TokenID = %q, want 1", got.TokenID)
	}

	mints, err := s.ListMints(ctx, "0x00000000000000000000000000000000000000c1")
	if err != nil {
		t.Fatalf("ListMints: %v", err)
	}
	if len(mints) != 1 {
		t.Errorf("len(mints) = %d, want 1", len(mints))
	}

	mints, err = s.ListMints(ctx, "0x00000000000000000000000000000000000000ff")
	if err != nil {
		t.Fatalf("ListMints: %v", err)
	}
	if len(mints) != 0 {
		t.Errorf("len(mints) = %d, want 0", len(mints))
	}
}

func TestOpenInHome_Reopen(t *testing.T) {
	home := t.TempDir()
	ctx := context.Background()

	s, err := OpenInHome(home)
	if err != nil {
		t.Fatalf("OpenInHome: %v", err)
	}
	if err := s.PutDeployment(ctx, deployment("0xcc01", "monadTestnet", time.Now().UTC())); err != nil {
		t.Fatalf("PutDeployment: %v", err)
	}
	s.Close()

	s, err = OpenInHome(home)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, err := s.GetDeployment(ctx, "0xcc01"); err != nil {
		t.Fatalf("GetDeployment after reopen: %v", err)
	}
}
