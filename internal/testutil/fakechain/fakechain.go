// Package fakechain provides an in-memory ports.NetworkClient that executes
// MusicNFT calls against simulated contract state. It is intended for tests.
package fakechain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/contract"
)

// Contract is the simulated state of one deployed MusicNFT.
type Contract struct {
	Name        string
	Symbol      string
	MintPrice   *big.Int
	MaxSupply   *big.Int
	TotalSupply *big.Int
	Tokens      map[common.Address][]*big.Int
}

// Chain is a fake network client. Exported fields configure behavior and
// may be changed between calls.
type Chain struct {
	mu sync.Mutex

	abi     abi.ABI
	account common.Address
	chainID *big.Int
	nonce   uint64
	block   uint64

	Balances  map[common.Address]*big.Int
	Contracts map[common.Address]*Contract

	// Template is copied into every contract created by a deployment.
	Template Contract

	// DeployRevertData, when set, makes deployments revert with this payload.
	DeployRevertData []byte
	// DeployReverts makes deployments revert even without payload.
	DeployReverts bool
	// MintRevertData, when set, makes mints revert with this payload.
	MintRevertData []byte
	// OmitMintedEvent drops the MusicNFTMinted log from mint receipts.
	OmitMintedEvent bool
	// Drop makes WaitForReceipt time out for every transaction.
	Drop bool
	// SubmitErr is returned by Submit when set.
	SubmitErr error
	// BrokenCode leaves deployed contracts without code so reads return nothing.
	BrokenCode bool

	Submitted []ports.TxRequest
	Calls     []ports.CallMsg

	receipts map[common.Hash]*ports.Receipt
}

// Ensure Chain implements ports.NetworkClient.
var _ ports.NetworkClient = (*Chain)(nil)

// New creates a chain whose signing account holds balance wei.
func New(balance *big.Int) *Chain {
	parsed, err := contract.ParseDefaultABI()
	if err != nil {
		panic(fmt.Sprintf("fakechain: %v", err))
	}
	account := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	return &Chain{
		abi:       parsed,
		account:   account,
		chainID:   big.NewInt(10143),
		Balances:  map[common.Address]*big.Int{account: new(big.Int).Set(balance)},
		Contracts: make(map[common.Address]*Contract),
		Template: Contract{
			Name:        "MusicNFT",
			Symbol:      "MNFT",
			MintPrice:   big.NewInt(10_000_000_000_000_000),
			MaxSupply:   big.NewInt(10000),
			TotalSupply: big.NewInt(0),
		},
		receipts: make(map[common.Hash]*ports.Receipt),
	}
}

// ABI returns the ABI used to encode results.
func (c *Chain) ABI() abi.ABI {
	return c.abi
}

// Account returns the signing account.
func (c *Chain) Account() ports.Account {
	return ports.Account{Address: c.account}
}

// ChainID returns the fake chain ID.
func (c *Chain) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.chainID), nil
}

// Balance returns the configured balance of addr.
func (c *Chain) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.Balances[addr]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

// EstimateGas executes msg the way a node does, so reverting calls fail
// estimation, and otherwise returns a fixed estimate.
func (c *Chain) EstimateGas(ctx context.Context, msg ports.CallMsg) (uint64, error) {
	if _, err := c.Call(ctx, msg, nil); err != nil {
		return 0, err
	}
	return 250_000, nil
}

// SubmitCount returns the number of submitted transactions.
func (c *Chain) SubmitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Submitted)
}

// Submit records and executes the transaction.
func (c *Chain) Submit(ctx context.Context, req ports.TxRequest) (*ports.TxHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SubmitErr != nil {
		return nil, c.SubmitErr
	}

	c.Submitted = append(c.Submitted, req)
	nonce := c.nonce
	c.nonce++
	c.block++

	hash := crypto.Keccak256Hash(c.account.Bytes(), new(big.Int).SetUint64(nonce).Bytes(), req.Data)
	receipt := &ports.Receipt{
		TxHash:      hash,
		BlockNumber: c.block,
		GasUsed:     21_000 + uint64(len(req.Data))*16,
		Status:      true,
	}

	if req.To == nil {
		c.executeDeploy(nonce, receipt)
	} else {
		c.executeCall(req, receipt)
	}
	c.receipts[hash] = receipt

	return &ports.TxHandle{
		Hash:        hash,
		Nonce:       nonce,
		GasPrice:    req.GasPrice,
		GasLimit:    req.GasLimit,
		SubmittedAt: time.Now(),
	}, nil
}

func (c *Chain) executeDeploy(nonce uint64, receipt *ports.Receipt) {
	if c.DeployReverts || len(c.DeployRevertData) > 0 {
		receipt.Status = false
		return
	}
	addr := crypto.CreateAddress(c.account, nonce)
	receipt.ContractAddress = addr
	if c.BrokenCode {
		return
	}
	tmpl := c.Template
	c.Contracts[addr] = &Contract{
		Name:        tmpl.Name,
		Symbol:      tmpl.Symbol,
		MintPrice:   new(big.Int).Set(tmpl.MintPrice),
		MaxSupply:   new(big.Int).Set(tmpl.MaxSupply),
		TotalSupply: new(big.Int).Set(tmpl.TotalSupply),
		Tokens:      make(map[common.Address][]*big.Int),
	}
}

func (c *Chain) executeCall(req ports.TxRequest, receipt *ports.Receipt) {
	to := *req.To
	state, ok := c.Contracts[to]
	if !ok || len(req.Data) < 4 {
		receipt.Status = false
		return
	}
	method, err := c.abi.MethodById(req.Data[:4])
	if err != nil || method.Name != contract.MethodMintMusicNFT {
		receipt.Status = false
		return
	}
	if len(c.MintRevertData) > 0 || valueOf(req.Value).Cmp(state.MintPrice) < 0 {
		receipt.Status = false
		return
	}

	args, err := method.Inputs.Unpack(req.Data[4:])
	if err != nil {
		receipt.Status = false
		return
	}
	recipient := args[0].(common.Address)
	title := args[1].(string)
	artist := args[2].(string)
	genre := args[3].(string)

	tokenID := new(big.Int).Add(state.TotalSupply, big.NewInt(1))
	state.TotalSupply = new(big.Int).Set(tokenID)
	state.Tokens[recipient] = append(state.Tokens[recipient], new(big.Int).Set(tokenID))

	// An ERC-721 Transfer precedes the domain event, as OpenZeppelin's _mint does.
	transfer := c.abi.Events["Transfer"]
	receipt.Logs = append(receipt.Logs, &types.Log{
		Address: to,
		Topics: []common.Hash{
			transfer.ID,
			{},
			common.BytesToHash(recipient.Bytes()),
			common.BigToHash(big.NewInt(999)),
		},
		BlockNumber: receipt.BlockNumber,
		TxHash:      receipt.TxHash,
		Index:       0,
	})

	if c.OmitMintedEvent {
		return
	}
	minted := c.abi.Events[contract.EventMusicNFTMinted]
	data, err := minted.Inputs.NonIndexed().Pack(title, artist, genre)
	if err != nil {
		panic(fmt.Sprintf("fakechain: pack minted event: %v", err))
	}
	receipt.Logs = append(receipt.Logs, &types.Log{
		Address: to,
		Topics: []common.Hash{
			minted.ID,
			common.BigToHash(tokenID),
			common.BytesToHash(recipient.Bytes()),
		},
		Data:        data,
		BlockNumber: receipt.BlockNumber,
		TxHash:      receipt.TxHash,
		Index:       1,
	})
}

// WaitForReceipt returns the stored receipt or ErrReceiptTimeout when Drop is set.
func (c *Chain) WaitForReceipt(ctx context.Context, handle *ports.TxHandle, timeout time.Duration) (*ports.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Drop {
		return nil, fmt.Errorf("%w after %s", ports.ErrReceiptTimeout, timeout)
	}
	receipt, ok := c.receipts[handle.Hash]
	if !ok {
		return nil, errors.New("unknown transaction")
	}
	return receipt, nil
}

// Call answers MusicNFT view calls and replays reverted writes.
func (c *Chain) Call(ctx context.Context, msg ports.CallMsg, block *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, msg)

	if msg.To == nil {
		if len(c.DeployRevertData) > 0 {
			return nil, &ports.CallRevertError{Message: "execution reverted", Data: c.DeployRevertData}
		}
		if c.DeployReverts {
			return nil, &ports.CallRevertError{Message: "execution reverted"}
		}
		return nil, nil
	}

	state, ok := c.Contracts[*msg.To]
	if !ok || len(msg.Data) < 4 {
		return nil, nil
	}
	method, err := c.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, &ports.CallRevertError{Message: "execution reverted"}
	}

	switch method.Name {
	case contract.MethodName:
		return method.Outputs.Pack(state.Name)
	case contract.MethodSymbol:
		return method.Outputs.Pack(state.Symbol)
	case contract.MethodMintPrice:
		return method.Outputs.Pack(new(big.Int).Set(state.MintPrice))
	case contract.MethodMaxSupply:
		return method.Outputs.Pack(new(big.Int).Set(state.MaxSupply))
	case contract.MethodTotalSupply:
		return method.Outputs.Pack(new(big.Int).Set(state.TotalSupply))
	case contract.MethodGetUserTokens:
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, err
		}
		owner := args[0].(common.Address)
		tokens := state.Tokens[owner]
		if tokens == nil {
			tokens = []*big.Int{}
		}
		return method.Outputs.Pack(tokens)
	case contract.MethodMintMusicNFT:
		if len(c.MintRevertData) > 0 {
			return nil, &ports.CallRevertError{Message: "execution reverted", Data: c.MintRevertData}
		}
		if valueOf(msg.Value).Cmp(state.MintPrice) < 0 {
			return nil, &ports.CallRevertError{
				Message: "execution reverted: Insufficient payment",
				Data:    RevertReason("Insufficient payment"),
			}
		}
		return method.Outputs.Pack(new(big.Int).Add(state.TotalSupply, big.NewInt(1)))
	}
	return nil, &ports.CallRevertError{Message: "execution reverted"}
}

// Close is a no-op.
func (c *Chain) Close() error {
	return nil
}

// RevertReason encodes reason as Error(string) revert data.
func RevertReason(reason string) []byte {
	stringType, _ := abi.NewType("string", "", nil)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	if err != nil {
		panic(fmt.Sprintf("fakechain: pack revert reason: %v", err))
	}
	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return append(selector, packed...)
}

func valueOf(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
