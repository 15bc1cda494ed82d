// Package ports defines the interfaces (ports) that the application layer
// requires from the infrastructure layer. This follows the Ports and Adapters
// (Hexagonal) architecture pattern, enabling dependency inversion.
package ports

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReceiptTimeout is returned by WaitForReceipt when no receipt was observed
// within the wait bound.
var ErrReceiptTimeout = errors.New("timed out waiting for transaction receipt")

// Account is the signing account of a network client.
type Account struct {
	Address common.Address
}

// CallMsg describes a read-only contract call or gas estimation.
// A nil To denotes contract creation.
type CallMsg struct {
	From  common.Address
	To    *common.Address
	Value *big.Int
	Data  []byte
}

// TxRequest describes a write transaction before it is signed.
// A nil To denotes contract creation. A nil GasPrice or zero GasLimit is
// filled in by the client.
type TxRequest struct {
	To       *common.Address
	Value    *big.Int
	Data     []byte
	GasPrice *big.Int
	GasLimit uint64
}

// TxHandle identifies a submitted transaction before it is confirmed.
type TxHandle struct {
	Hash        common.Hash
	Nonce       uint64
	GasPrice    *big.Int
	GasLimit    uint64
	SubmittedAt time.Time
}

// Receipt is the confirmed outcome of a transaction.
type Receipt struct {
	TxHash          common.Hash
	BlockNumber     uint64
	GasUsed         uint64
	Status          bool
	ContractAddress common.Address
	Logs            []*types.Log
}

// NetworkClient submits transactions on behalf of a single signing account
// and queries chain state. Nonce assignment is owned by the client.
type NetworkClient interface {
	// Account returns the signing account.
	Account() Account

	// ChainID returns the chain ID of the connected network.
	ChainID(ctx context.Context) (*big.Int, error)

	// Balance returns the balance of addr at the latest block.
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)

	// Call executes a read-only call. A nil block means the latest block.
	Call(ctx context.Context, msg CallMsg, block *big.Int) ([]byte, error)

	// EstimateGas estimates the gas needed to execute msg.
	EstimateGas(ctx context.Context, msg CallMsg) (uint64, error)

	// Submit signs and broadcasts a transaction and returns its handle
	// as soon as the node accepts it.
	Submit(ctx context.Context, req TxRequest) (*TxHandle, error)

	// WaitForReceipt blocks until the transaction is included or the
	// timeout elapses, in which case ErrReceiptTimeout is returned.
	WaitForReceipt(ctx context.Context, handle *TxHandle, timeout time.Duration) (*Receipt, error)

	// Close releases the underlying connection.
	Close() error
}

// ContractCaller is the read-only subset of NetworkClient used by bindings.
type ContractCaller interface {
	Call(ctx context.Context, msg CallMsg, block *big.Int) ([]byte, error)
}

// CallRevertError is returned by Call and EstimateGas when execution reverted.
// Data holds the raw revert payload when the node returned one.
type CallRevertError struct {
	Message string
	Data    []byte
}

func (e *CallRevertError) Error() string {
	if e.Message == "" {
		return "execution reverted"
	}
	return e.Message
}

// RevertData extracts revert payload bytes from err, if any.
func RevertData(err error) ([]byte, bool) {
	var revertErr *CallRevertError
	if errors.As(err, &revertErr) {
		return revertErr.Data, true
	}
	return nil, false
}

// String returns a short description of the handle.
func (h *TxHandle) String() string {
	if h == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (nonce %d)", h.Hash.Hex(), h.Nonce)
}
