package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/contract"
	"github.com/altuslabsxyz/musicnft/internal/metrics"
	"github.com/altuslabsxyz/musicnft/internal/nft"
	"github.com/altuslabsxyz/musicnft/internal/testutil/fakechain"
	"github.com/altuslabsxyz/musicnft/internal/units"
)

var fixedTime = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func ether(t *testing.T, s string) *big.Int {
	t.Helper()
	v, err := units.ParseEther(s)
	require.NoError(t, err)
	return v
}

func deployGas() GasConfig {
	return GasConfig{GasPrice: big.NewInt(50_000_000_000), GasLimit: 8_000_000}
}

// mintGas skips estimation so a reverting mint reaches the chain.
func mintGas() GasConfig {
	return GasConfig{GasLimit: 300_000}
}

type harness struct {
	chain   *fakechain.Chain
	binding *contract.MusicNFT
	orch    *Orchestrator
	phases  []Phase
}

func newHarness(t *testing.T, balance string) *harness {
	t.Helper()
	h := &harness{chain: fakechain.New(ether(t, balance))}

	parsed, err := contract.ParseDefaultABI()
	require.NoError(t, err)
	h.binding = contract.New(parsed, []byte{0x60, 0x80, 0x60, 0x40}, h.chain)

	h.orch = New(h.chain, h.binding, Options{
		ConfirmTimeout: 5 * time.Second,
		OnPhase: func(_ string, p Phase) {
			h.phases = append(h.phases, p)
		},
		Clock: func() time.Time { return fixedTime },
	})
	return h
}

func (h *harness) deploy(t *testing.T) common.Address {
	t.Helper()
	record, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})
	require.NoError(t, err)
	h.phases = nil
	return common.HexToAddress(record.ContractAddress)
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(format string, args ...interface{}) {
	l.lines = append(l.lines, "DEBUG "+fmt.Sprintf(format, args...))
}

func TestDeploy_LogsPendingTransaction(t *testing.T) {
	h := newHarness(t, "1")
	logger := &recordingLogger{}
	h.orch.opts.Logger = logger

	record, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})
	require.NoError(t, err)

	want := fmt.Sprintf("DEBUG Waiting for deploy receipt of %s (nonce 0)", record.TransactionHash)
	assert.Contains(t, strings.Join(logger.lines, "\n"), want)
}

func TestDeploy_InsufficientFunds(t *testing.T) {
	h := newHarness(t, "0.05")
	counter := metrics.PreconditionFailures.WithLabelValues(metrics.OperationDeploy, "insufficient_funds")
	before := testutil.ToFloat64(counter)

	record, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})
	require.Error(t, err)
	assert.Nil(t, record)

	var fundsErr *InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, ether(t, "0.1"), fundsErr.Required)
	assert.Contains(t, err.Error(), "0.05 MON")
	assert.Equal(t, 0, h.chain.SubmitCount())
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	phase, ok := PhaseOf(err)
	require.True(t, ok)
	assert.Equal(t, PhaseBuilt, phase)
}

func TestDeploy_RequiresExplicitGas(t *testing.T) {
	h := newHarness(t, "1")

	_, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: GasConfig{GasLimit: 8_000_000}})
	require.ErrorIs(t, err, ErrGasConfigRequired)
	assert.Equal(t, 0, h.chain.SubmitCount())
}

func TestDeploy_Success(t *testing.T) {
	h := newHarness(t, "1")

	record, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})
	require.NoError(t, err)

	require.Len(t, h.chain.Submitted, 1)
	sent := h.chain.Submitted[0]
	assert.Nil(t, sent.To)
	assert.Equal(t, "50000000000", sent.GasPrice.String())
	assert.Equal(t, uint64(8_000_000), sent.GasLimit)

	addr := common.HexToAddress(record.ContractAddress)
	info, err := h.binding.Info(context.Background(), addr)
	require.NoError(t, err)

	assert.Equal(t, info.MaxSupply.String(), record.ContractInfo.MaxSupply)
	assert.Equal(t, "MusicNFT", record.ContractInfo.Name)
	assert.Equal(t, "MNFT", record.ContractInfo.Symbol)
	assert.Equal(t, "0.01", record.ContractInfo.MintPrice)
	assert.Equal(t, "0", record.ContractInfo.TotalSupply)
	assert.Equal(t, DefaultNetwork, record.Network)
	assert.Equal(t, h.chain.Account().Address.Hex(), record.DeployerAddress)
	assert.Equal(t, fixedTime, record.Timestamp)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, PhaseConfirmed, record.Phase)
	assert.Equal(t, []Phase{PhaseBuilt, PhaseSubmitted, PhaseConfirmed}, h.phases)
}

func TestDeploy_TwiceCreatesTwoContracts(t *testing.T) {
	h := newHarness(t, "1")

	first, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})
	require.NoError(t, err)
	second, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})
	require.NoError(t, err)

	assert.NotEqual(t, first.ContractAddress, second.ContractAddress)
	assert.NotEqual(t, first.TransactionHash, second.TransactionHash)
	assert.Equal(t, 2, h.chain.SubmitCount())
}

func TestDeploy_RevertedWithReason(t *testing.T) {
	h := newHarness(t, "1")
	h.chain.DeployRevertData = fakechain.RevertReason("constructor failed")

	record, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})
	require.Error(t, err)
	assert.Nil(t, record)

	var revertErr *DeploymentRevertedError
	require.ErrorAs(t, err, &revertErr)
	assert.Equal(t, "constructor failed", revertErr.Reason)
	assert.Equal(t, []Phase{PhaseBuilt, PhaseSubmitted, PhaseReverted}, h.phases)

	// The replay is a creation call from the deployer.
	require.NotEmpty(t, h.chain.Calls)
	assert.Nil(t, h.chain.Calls[0].To)
}

func TestDeploy_RevertedWithoutReason(t *testing.T) {
	h := newHarness(t, "1")
	h.chain.DeployReverts = true

	_, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})

	var unknown *UnknownRevertError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, metrics.OperationDeploy, unknown.Operation)
	assert.Contains(t, err.Error(), "without a reason")
}

func TestDeploy_Dropped(t *testing.T) {
	h := newHarness(t, "1")
	h.chain.Drop = true

	_, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.ErrorIs(t, err, ports.ErrReceiptTimeout)
	assert.Equal(t, 5*time.Second, timeoutErr.Timeout)

	phase, ok := PhaseOf(err)
	require.True(t, ok)
	assert.Equal(t, PhaseDropped, phase)
	assert.NotEqual(t, PhaseReverted, phase)
}

func TestDeploy_CancelledContextStillAwaits(t *testing.T) {
	h := newHarness(t, "1")
	ctx, cancel := context.WithCancel(context.Background())

	h.orch.opts.OnPhase = func(_ string, p Phase) {
		if p == PhaseSubmitted {
			cancel()
		}
	}

	record, err := h.orch.Deploy(ctx, DeployRequest{Gas: deployGas()})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ContractAddress)
}

func TestDeploy_VerificationFails(t *testing.T) {
	h := newHarness(t, "1")
	h.chain.BrokenCode = true

	_, err := h.orch.Deploy(context.Background(), DeployRequest{Gas: deployGas()})

	var verifyErr *VerificationError
	require.ErrorAs(t, err, &verifyErr)
	assert.NotEqual(t, common.Address{}, verifyErr.Address)
	assert.Contains(t, err.Error(), "empty result")
}

func TestMint_TokenIDFromMintedEvent(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)

	record, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})
	require.NoError(t, err)

	// The receipt also carries a Transfer log with a different token ID.
	assert.Equal(t, "1", record.TokenID)
	assert.True(t, record.HasTokenID())
	assert.Equal(t, "Monad Vibes", record.Title)
	assert.Equal(t, "Crypto Composer", record.Artist)
	assert.Equal(t, h.chain.Account().Address.Hex(), record.Owner)
	assert.Equal(t, []string{"1"}, record.UserTokens)
	assert.Empty(t, record.Anomalies)
	assert.Equal(t, "0.01", record.Price)
	assert.Equal(t, []Phase{PhaseBuilt, PhaseSubmitted, PhaseConfirmed}, h.phases)
}

func TestMint_DefaultTokenURIEncodesMetadata(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)

	_, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})
	require.NoError(t, err)

	data := h.chain.Submitted[1].Data
	parsed := h.binding.ABI()
	method, err := parsed.MethodById(data[:4])
	require.NoError(t, err)
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)

	meta, err := nft.DecodeTokenURI(args[7].(string))
	require.NoError(t, err)
	assert.Equal(t, "Music NFT by Crypto Composer", meta.Description)
}

func TestMint_PaysPriceInEffectAtSubmission(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)

	_, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})
	require.NoError(t, err)

	h.chain.Contracts[addr].MintPrice = ether(t, "0.02")

	second, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})
	require.NoError(t, err)

	require.Len(t, h.chain.Submitted, 3)
	assert.Equal(t, ether(t, "0.01"), h.chain.Submitted[1].Value)
	assert.Equal(t, ether(t, "0.02"), h.chain.Submitted[2].Value)
	assert.Equal(t, "2", second.TokenID)
	assert.Equal(t, []string{"1", "2"}, second.UserTokens)
}

func TestMint_UnderpaymentFailsLocally(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)

	_, err := h.orch.Mint(context.Background(), MintRequest{
		Contract: addr,
		Track:    nft.ExampleTrack(),
		Payment:  ether(t, "0.001"),
	})

	var mismatch *PaymentMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Nil(t, mismatch.Revert)
	assert.Equal(t, ether(t, "0.01"), mismatch.Required)
	assert.Equal(t, 1, h.chain.SubmitCount())

	var revertErr *MintRevertedError
	assert.False(t, errors.As(err, &revertErr))
}

func TestMint_RevertedForPayment(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)
	h.chain.MintRevertData = fakechain.RevertReason("Insufficient payment")

	record, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack(), Gas: mintGas()})
	require.Error(t, err)
	assert.Nil(t, record)

	var mismatch *PaymentMismatchError
	require.ErrorAs(t, err, &mismatch)
	var revertErr *MintRevertedError
	require.ErrorAs(t, err, &revertErr)
	assert.Equal(t, "Insufficient payment", revertErr.Reason)
	assert.Equal(t, []Phase{PhaseBuilt, PhaseSubmitted, PhaseReverted}, h.phases)
}

func TestMint_RevertedForOtherReason(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)
	h.chain.MintRevertData = fakechain.RevertReason("Max supply reached")

	_, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack(), Gas: mintGas()})

	var revertErr *MintRevertedError
	require.ErrorAs(t, err, &revertErr)
	assert.Equal(t, "Max supply reached", revertErr.Reason)

	var mismatch *PaymentMismatchError
	assert.False(t, errors.As(err, &mismatch))
}

func TestMint_RevertedWithUndecodableData(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)
	h.chain.MintRevertData = []byte{0xde, 0xad, 0xbe, 0xef}

	_, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack(), Gas: mintGas()})

	var unknown *UnknownRevertError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, unknown.Data)
}

func TestMint_EstimateRevertedForPayment(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)
	h.chain.MintRevertData = fakechain.RevertReason("Insufficient payment")

	record, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})
	require.Error(t, err)
	assert.Nil(t, record)

	var mismatch *PaymentMismatchError
	require.ErrorAs(t, err, &mismatch)
	var revertErr *MintRevertedError
	require.ErrorAs(t, err, &revertErr)
	assert.Equal(t, "Insufficient payment", revertErr.Reason)
	assert.True(t, revertErr.Estimated)

	phase, ok := PhaseOf(err)
	require.True(t, ok)
	assert.Equal(t, PhaseBuilt, phase)
	assert.Equal(t, []Phase{PhaseBuilt}, h.phases)
	assert.Equal(t, 1, h.chain.SubmitCount())
}

func TestMint_EstimateRevertedForOtherReason(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)
	h.chain.MintRevertData = fakechain.RevertReason("Max supply reached")

	_, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})

	var revertErr *MintRevertedError
	require.ErrorAs(t, err, &revertErr)
	assert.Equal(t, "Max supply reached", revertErr.Reason)
	var mismatch *PaymentMismatchError
	assert.False(t, errors.As(err, &mismatch))
	assert.Equal(t, 1, h.chain.SubmitCount())
}

func TestMint_EstimateRevertedWithUndecodableData(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)
	h.chain.MintRevertData = []byte{0xde, 0xad, 0xbe, 0xef}

	_, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})

	var unknown *UnknownRevertError
	require.ErrorAs(t, err, &unknown)
	assert.True(t, unknown.Estimated)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, unknown.Data)
	assert.Equal(t, 1, h.chain.SubmitCount())
}

func TestMint_MissingEventIsAnomaly(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)
	h.chain.OmitMintedEvent = true

	record, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})
	require.NoError(t, err)

	assert.False(t, record.HasTokenID())
	require.Len(t, record.Anomalies, 1)
	assert.Contains(t, record.Anomalies[0], "MusicNFTMinted")
	assert.Equal(t, []string{"1"}, record.UserTokens)
}

func TestMint_Preconditions(t *testing.T) {
	h := newHarness(t, "1")

	_, err := h.orch.Mint(context.Background(), MintRequest{Track: nft.ExampleTrack()})
	require.ErrorIs(t, err, ErrNoContractAddress)

	track := nft.ExampleTrack()
	track.Title = ""
	_, err = h.orch.Mint(context.Background(), MintRequest{Contract: common.HexToAddress("0x01"), Track: track})
	require.Error(t, err)

	assert.Equal(t, 0, h.chain.SubmitCount())
}

func TestMint_Dropped(t *testing.T) {
	h := newHarness(t, "1")
	addr := h.deploy(t)
	h.chain.Drop = true

	_, err := h.orch.Mint(context.Background(), MintRequest{Contract: addr, Track: nft.ExampleTrack()})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, metrics.OperationMint, timeoutErr.Operation)
}
