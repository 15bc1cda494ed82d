package orchestrator

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/metrics"
	"github.com/altuslabsxyz/musicnft/internal/units"
)

// Base errors for orchestrated operations.
var (
	ErrGasConfigRequired = errors.New("explicit gas price and gas limit are required")
	ErrNoContractAddress = errors.New("contract address is required")
	ErrNoCreatedAddress  = errors.New("receipt does not contain a contract address")
)

// HintedError is implemented by errors that carry a recovery suggestion.
type HintedError interface {
	error
	RecoveryHint() string
}

// InsufficientFundsError is returned before submission when the signer's
// balance is below the configured minimum.
type InsufficientFundsError struct {
	Address  common.Address
	Balance  *big.Int
	Required *big.Int
	Currency string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance for deployment: %s has %s %s, need at least %s %s",
		e.Address.Hex(), units.FormatEther(e.Balance), e.Currency, units.FormatEther(e.Required), e.Currency)
}

func (e *InsufficientFundsError) RecoveryHint() string {
	return fmt.Sprintf("Fund %s from the network faucet and retry", e.Address.Hex())
}

// Phase returns the phase the transaction ended in.
func (e *InsufficientFundsError) Phase() Phase { return PhaseBuilt }

// DeploymentRevertedError is returned when the deployment transaction was
// included but reverted with a decodable reason.
type DeploymentRevertedError struct {
	TxHash      common.Hash
	BlockNumber uint64
	Reason      string
}

func (e *DeploymentRevertedError) Error() string {
	return fmt.Sprintf("deployment reverted in block %d (tx %s): %s", e.BlockNumber, e.TxHash.Hex(), e.Reason)
}

func (e *DeploymentRevertedError) RecoveryHint() string {
	return "Check the constructor arguments and the compiled artifact"
}

// Phase returns the phase the transaction ended in.
func (e *DeploymentRevertedError) Phase() Phase { return PhaseReverted }

// MintRevertedError is returned when the mint reverted with a decodable
// reason, either in an included transaction or during gas estimation.
type MintRevertedError struct {
	TxHash      common.Hash
	BlockNumber uint64
	Reason      string
	// Estimated is set when the node rejected the mint while estimating gas;
	// no transaction was submitted.
	Estimated bool
}

func (e *MintRevertedError) Error() string {
	if e.Estimated {
		return fmt.Sprintf("mint would revert (rejected during gas estimation): %s", e.Reason)
	}
	return fmt.Sprintf("mint reverted in block %d (tx %s): %s", e.BlockNumber, e.TxHash.Hex(), e.Reason)
}

func (e *MintRevertedError) RecoveryHint() string {
	return "Check the contract state (max supply, paused) and the mint arguments"
}

// Phase returns the phase the transaction ended in.
func (e *MintRevertedError) Phase() Phase {
	if e.Estimated {
		return PhaseBuilt
	}
	return PhaseReverted
}

// PaymentMismatchError is returned when the attached payment does not cover
// the mint price. Revert is nil when the mismatch was caught before
// submission; otherwise the error also unwraps to the *MintRevertedError.
type PaymentMismatchError struct {
	Sent     *big.Int
	Required *big.Int
	Currency string
	Revert   *MintRevertedError
}

func (e *PaymentMismatchError) Error() string {
	if e.Revert != nil {
		return fmt.Sprintf("payment rejected by contract: %s", e.Revert.Error())
	}
	return fmt.Sprintf("payment of %s %s is below the mint price of %s %s",
		units.FormatEther(e.Sent), e.Currency, units.FormatEther(e.Required), e.Currency)
}

func (e *PaymentMismatchError) Unwrap() error {
	if e.Revert == nil {
		return nil
	}
	return e.Revert
}

func (e *PaymentMismatchError) RecoveryHint() string {
	return "The mint price may have changed; retry to pay the current price"
}

// Phase returns the phase the transaction ended in.
func (e *PaymentMismatchError) Phase() Phase {
	if e.Revert != nil {
		return e.Revert.Phase()
	}
	return PhaseBuilt
}

// UnknownRevertError is returned when a transaction reverted and no reason
// could be recovered.
type UnknownRevertError struct {
	Operation   string
	TxHash      common.Hash
	BlockNumber uint64
	Data        []byte
	// Estimated is set when the revert surfaced during gas estimation.
	Estimated bool
}

func (e *UnknownRevertError) Error() string {
	if e.Estimated {
		if len(e.Data) > 0 {
			return fmt.Sprintf("%s would revert (rejected during gas estimation) with undecodable data 0x%x", e.Operation, e.Data)
		}
		return fmt.Sprintf("%s would revert (rejected during gas estimation) without a reason", e.Operation)
	}
	if len(e.Data) > 0 {
		return fmt.Sprintf("%s reverted in block %d (tx %s) with undecodable data 0x%x",
			e.Operation, e.BlockNumber, e.TxHash.Hex(), e.Data)
	}
	return fmt.Sprintf("%s reverted in block %d (tx %s) without a reason", e.Operation, e.BlockNumber, e.TxHash.Hex())
}

func (e *UnknownRevertError) RecoveryHint() string {
	switch {
	case e.Estimated:
		return "Check the contract state (max supply, paused) and the mint arguments"
	case e.Operation == metrics.OperationDeploy:
		return "The constructor may have run out of gas; raise gas_limit"
	default:
		return "Inspect the transaction in the block explorer"
	}
}

// Phase returns the phase the transaction ended in.
func (e *UnknownRevertError) Phase() Phase {
	if e.Estimated {
		return PhaseBuilt
	}
	return PhaseReverted
}

// TimeoutError is returned when no receipt was observed within the
// confirmation bound. The transaction may still be included later.
type TimeoutError struct {
	Operation string
	TxHash    common.Hash
	Timeout   time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s transaction %s not confirmed within %s", e.Operation, e.TxHash.Hex(), e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

func (e *TimeoutError) RecoveryHint() string {
	return "Look the transaction up in the explorer before retrying; it may still be mined"
}

// Phase returns the phase the transaction ended in.
func (e *TimeoutError) Phase() Phase { return PhaseDropped }

// VerificationError is returned when a confirmed deployment cannot be read
// back from its address.
type VerificationError struct {
	Address common.Address
	TxHash  common.Hash
	Err     error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("deployed contract at %s failed verification: %v", e.Address.Hex(), e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

func (e *VerificationError) RecoveryHint() string {
	return "Check that the artifact ABI matches the deployed bytecode"
}

// Phase returns the phase the transaction ended in.
func (e *VerificationError) Phase() Phase { return PhaseConfirmed }

// RecoveryHint returns a suggestion for err, or "" when none is known.
func RecoveryHint(err error) string {
	var hinted HintedError
	if errors.As(err, &hinted) {
		return hinted.RecoveryHint()
	}
	switch {
	case errors.Is(err, ErrGasConfigRequired):
		return "Set gas_price_gwei and gas_limit in config.toml"
	case errors.Is(err, ErrNoContractAddress):
		return "Set CONTRACT_ADDRESS or deploy a contract first with 'musicnft deploy'"
	case errors.Is(err, ports.ErrReceiptTimeout):
		return "Raise confirm_timeout or check the RPC endpoint"
	default:
		return ""
	}
}

// PhaseOf returns the terminal phase carried by err, if any.
func PhaseOf(err error) (Phase, bool) {
	var phased interface{ Phase() Phase }
	if errors.As(err, &phased) {
		return phased.Phase(), true
	}
	return "", false
}
