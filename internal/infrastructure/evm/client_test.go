package evm

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
)

// answerInitCode deploys a contract whose every call returns uint256(42).
var answerInitCode = hexutil.MustDecode("0x600a600c600039600a6000f3602a60005260206000f3")

// revertInitCode reverts contract creation with the payload 0xdeadbeef.
var revertInitCode = hexutil.MustDecode("0x63deadbeef60e01b60005260046000fd")

var gasPrice = big.NewInt(50_000_000_000)

func newSimulated(t *testing.T) (*simulated.Backend, *Client) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	funds, _ := new(big.Int).SetString("100000000000000000000", 10)
	sim := simulated.NewBackend(types.GenesisAlloc{addr: {Balance: funds}})
	t.Cleanup(func() { _ = sim.Close() })

	return sim, NewClient(sim.Client(), key, WithPollInterval(50*time.Millisecond))
}

func TestParsePrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(key))

	parsed, err := ParsePrivateKey(hexKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(parsed.PublicKey))

	parsed, err = ParsePrivateKey(hexKey[2:])
	require.NoError(t, err)
	assert.NotNil(t, parsed)

	_, err = ParsePrivateKey("")
	require.Error(t, err)

	_, err = ParsePrivateKey("0xnot-a-key")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "not-a-key")
}

func TestClient_BalanceAndChainID(t *testing.T) {
	_, client := newSimulated(t)
	ctx := context.Background()

	balance, err := client.Balance(ctx, client.Account().Address)
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000", balance.String())

	chainID, err := client.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1337), chainID.Int64())
}

func TestClient_DeployAndCall(t *testing.T) {
	sim, client := newSimulated(t)
	ctx := context.Background()

	handle, err := client.Submit(ctx, ports.TxRequest{
		Data:     answerInitCode,
		GasPrice: gasPrice,
		GasLimit: 100_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), handle.Nonce)
	sim.Commit()

	receipt, err := client.WaitForReceipt(ctx, handle, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, receipt.Status)
	assert.Equal(t, handle.Hash, receipt.TxHash)
	assert.Equal(t, crypto.CreateAddress(client.Account().Address, 0), receipt.ContractAddress)
	assert.NotZero(t, receipt.GasUsed)

	out, err := client.Call(ctx, ports.CallMsg{To: &receipt.ContractAddress}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), new(big.Int).SetBytes(out).Int64())
}

func TestClient_NoncesIncrease(t *testing.T) {
	sim, client := newSimulated(t)
	ctx := context.Background()
	to := common.HexToAddress("0x00000000000000000000000000000000000000b0")

	first, err := client.Submit(ctx, ports.TxRequest{To: &to, Value: big.NewInt(1), GasPrice: gasPrice})
	require.NoError(t, err)
	second, err := client.Submit(ctx, ports.TxRequest{To: &to, Value: big.NewInt(1), GasPrice: gasPrice})
	require.NoError(t, err)

	assert.Equal(t, first.Nonce+1, second.Nonce)
	assert.Equal(t, uint64(21000), first.GasLimit)
	sim.Commit()

	_, err = client.WaitForReceipt(ctx, second, 5*time.Second)
	require.NoError(t, err)
}

func TestClient_WaitForReceipt_NewHead(t *testing.T) {
	sim, client := newSimulated(t)
	ctx := context.Background()
	to := common.HexToAddress("0x00000000000000000000000000000000000000b0")

	handle, err := client.Submit(ctx, ports.TxRequest{To: &to, Value: big.NewInt(1), GasPrice: gasPrice})
	require.NoError(t, err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		sim.Commit()
	}()

	receipt, err := client.WaitForReceipt(ctx, handle, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, receipt.Status)
}

func TestClient_WaitForReceipt_Timeout(t *testing.T) {
	_, client := newSimulated(t)
	ctx := context.Background()
	to := common.HexToAddress("0x00000000000000000000000000000000000000b0")

	handle, err := client.Submit(ctx, ports.TxRequest{To: &to, Value: big.NewInt(1), GasPrice: gasPrice})
	require.NoError(t, err)

	_, err = client.WaitForReceipt(ctx, handle, 200*time.Millisecond)
	require.ErrorIs(t, err, ports.ErrReceiptTimeout)
}

func TestClient_CallRevertData(t *testing.T) {
	_, client := newSimulated(t)

	_, err := client.Call(context.Background(), ports.CallMsg{
		From: client.Account().Address,
		Data: revertInitCode,
	}, nil)
	require.Error(t, err)

	data, ok := ports.RevertData(err)
	require.True(t, ok)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data)
}

func TestClient_Close(t *testing.T) {
	closed := 0
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	client := NewClient(nil, key, WithCloser(func() { closed++ }))
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.Equal(t, 1, closed)
}
