// Package evm provides the go-ethereum implementation of ports.NetworkClient.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
)

// DefaultPollInterval is used when the transport cannot push new heads.
const DefaultPollInterval = 2 * time.Second

// Backend is the subset of the go-ethereum client API used by Client.
// Both *ethclient.Client and the simulated backend's client satisfy it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)
}

// Client implements ports.NetworkClient for a single signing key.
type Client struct {
	backend      Backend
	key          *ecdsa.PrivateKey
	address      common.Address
	pollInterval time.Duration
	closer       func()

	mu      sync.Mutex // serializes nonce assignment
	chainID *big.Int
}

// Ensure Client implements ports.NetworkClient.
var _ ports.NetworkClient = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithPollInterval sets the receipt poll interval used when new-head
// subscriptions are unavailable.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithCloser sets a function invoked by Close.
func WithCloser(fn func()) Option {
	return func(c *Client) {
		c.closer = fn
	}
}

// NewClient creates a client signing with key over backend.
func NewClient(backend Backend, key *ecdsa.PrivateKey, opts ...Option) *Client {
	c := &Client{
		backend:      backend,
		key:          key,
		address:      crypto.PubkeyToAddress(key.PublicKey),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to rpcURL and returns a client signing with privateKeyHex.
func Dial(ctx context.Context, rpcURL, privateKeyHex string, opts ...Option) (*Client, error) {
	key, err := ParsePrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}

	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to EVM RPC: %w", err)
	}

	c := NewClient(ec, key, append([]Option{WithCloser(ec.Close)}, opts...)...)

	// Cache chain ID
	if _, err := c.ChainID(ctx); err != nil {
		ec.Close()
		return nil, err
	}
	return c, nil
}

// ParsePrivateKey parses a hex private key with or without the 0x prefix.
// The key material is never included in the returned error.
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, errors.New("private key is empty")
	}
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, errors.New("private key is not a valid secp256k1 hex key")
	}
	return key, nil
}

// Account returns the signing account.
func (c *Client) Account() ports.Account {
	return ports.Account{Address: c.address}
}

// ChainID returns the chain ID, cached after the first query.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chainIDLocked(ctx)
}

func (c *Client) chainIDLocked(ctx context.Context) (*big.Int, error) {
	if c.chainID != nil {
		return new(big.Int).Set(c.chainID), nil
	}
	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	c.chainID = chainID
	return new(big.Int).Set(chainID), nil
}

// Balance retrieves the balance of addr at the latest block.
func (c *Client) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Call executes a read-only call. Reverts are returned as *ports.CallRevertError.
func (c *Client) Call(ctx context.Context, msg ports.CallMsg, block *big.Int) ([]byte, error) {
	out, err := c.backend.CallContract(ctx, toCallMsg(msg), block)
	if err != nil {
		return nil, toRevertError(err)
	}
	return out, nil
}

// EstimateGas estimates gas for msg.
func (c *Client) EstimateGas(ctx context.Context, msg ports.CallMsg) (uint64, error) {
	gas, err := c.backend.EstimateGas(ctx, toCallMsg(msg))
	if err != nil {
		return 0, fmt.Errorf("failed to estimate gas: %w", toRevertError(err))
	}
	return gas, nil
}

// Submit signs req as a legacy transaction with the next pending nonce and
// broadcasts it.
func (c *Client) Submit(ctx context.Context, req ports.TxRequest) (*ports.TxHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chainID, err := c.chainIDLocked(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice := req.GasPrice
	if gasPrice == nil {
		gasPrice, err = c.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit, err = c.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:     c.address,
			To:       req.To,
			GasPrice: gasPrice,
			Value:    req.Value,
			Data:     req.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", toRevertError(err))
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       req.To,
		Value:    req.Value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     req.Data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return &ports.TxHandle{
		Hash:        signed.Hash(),
		Nonce:       nonce,
		GasPrice:    gasPrice,
		GasLimit:    gasLimit,
		SubmittedAt: time.Now(),
	}, nil
}

// WaitForReceipt waits for the transaction to be mined. It checks for a
// receipt on every new head when the transport supports subscriptions and
// polls otherwise.
func (c *Client) WaitForReceipt(ctx context.Context, handle *ports.TxHandle, timeout time.Duration) (*ports.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if receipt, ok := c.fetchReceipt(ctx, handle.Hash); ok {
		return receipt, nil
	}

	heads := make(chan *types.Header, 16)
	var (
		tick   <-chan time.Time
		subErr <-chan error
		ticker *time.Ticker
	)
	startPolling := func() {
		ticker = time.NewTicker(c.pollInterval)
		tick = ticker.C
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	sub, err := c.backend.SubscribeNewHead(ctx, heads)
	if err != nil {
		// HTTP transports do not support notifications.
		startPolling()
	} else {
		defer sub.Unsubscribe()
		subErr = sub.Err()
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s after %s", ports.ErrReceiptTimeout, handle.Hash.Hex(), timeout)
			}
			return nil, ctx.Err()
		case <-subErr:
			subErr = nil
			startPolling()
		case <-heads:
		case <-tick:
		}

		if receipt, ok := c.fetchReceipt(ctx, handle.Hash); ok {
			return receipt, nil
		}
	}
}

func (c *Client) fetchReceipt(ctx context.Context, hash common.Hash) (*ports.Receipt, bool) {
	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		// Transaction not yet mined, continue waiting
		return nil, false
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	return &ports.Receipt{
		TxHash:          receipt.TxHash,
		BlockNumber:     block,
		GasUsed:         receipt.GasUsed,
		Status:          receipt.Status == types.ReceiptStatusSuccessful,
		ContractAddress: receipt.ContractAddress,
		Logs:            receipt.Logs,
	}, true
}

// Close closes the client connection.
func (c *Client) Close() error {
	if c.closer != nil {
		c.closer()
		c.closer = nil
	}
	return nil
}

func toCallMsg(msg ports.CallMsg) ethereum.CallMsg {
	return ethereum.CallMsg{
		From:  msg.From,
		To:    msg.To,
		Value: msg.Value,
		Data:  msg.Data,
	}
}

// toRevertError converts JSON-RPC revert errors into *ports.CallRevertError.
func toRevertError(err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return &ports.CallRevertError{Message: err.Error(), Data: revertBytes(dataErr.ErrorData())}
	}
	if strings.Contains(err.Error(), "execution reverted") {
		return &ports.CallRevertError{Message: err.Error()}
	}
	return err
}

func revertBytes(data interface{}) []byte {
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil
		}
		return b
	case []byte:
		return v
	default:
		return nil
	}
}
