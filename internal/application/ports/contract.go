package ports

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/altuslabsxyz/musicnft/internal/nft"
)

// ContractInfo is the metadata read back from a deployed MusicNFT contract.
type ContractInfo struct {
	Name        string
	Symbol      string
	MintPrice   *big.Int
	MaxSupply   *big.Int
	TotalSupply *big.Int
}

// MintCall holds the arguments of mintMusicNFT.
type MintCall struct {
	To       common.Address
	Track    nft.Track
	TokenURI string
}

// MintedEvent is a decoded MusicNFTMinted log.
type MintedEvent struct {
	TokenID  *big.Int
	Owner    common.Address
	Title    string
	Artist   string
	LogIndex uint
}

// ContractBinding encodes calls to and decodes results from the MusicNFT
// contract.
type ContractBinding interface {
	// DeployData returns contract creation data: bytecode followed by the
	// packed constructor arguments.
	DeployData(args ...interface{}) ([]byte, error)

	// MintData returns the calldata for mintMusicNFT.
	MintData(call MintCall) ([]byte, error)

	// Info reads name, symbol, mintPrice, maxSupply and totalSupply.
	Info(ctx context.Context, contract common.Address) (*ContractInfo, error)

	// MintPrice reads the current mint price.
	MintPrice(ctx context.Context, contract common.Address) (*big.Int, error)

	// UserTokens reads the token IDs owned by owner.
	UserTokens(ctx context.Context, contract common.Address, owner common.Address) ([]*big.Int, error)

	// FindMinted scans logs emitted by contract for the MusicNFTMinted event.
	// The second return value is false when no such event is present.
	FindMinted(contract common.Address, logs []*types.Log) (*MintedEvent, bool)

	// DecodeRevert turns revert data into a human-readable reason.
	DecodeRevert(data []byte) (string, bool)
}
