package orchestrator

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/metrics"
	"github.com/altuslabsxyz/musicnft/internal/units"
)

// DeployRequest describes a contract deployment.
type DeployRequest struct {
	ConstructorArgs []interface{}
	Gas             GasConfig
}

// Deploy submits a contract creation transaction, waits for it and verifies
// the new contract by reading its state back. Every call creates a new
// contract.
func (o *Orchestrator) Deploy(ctx context.Context, req DeployRequest) (*DeploymentRecord, error) {
	const op = metrics.OperationDeploy
	log := o.opts.Logger
	lc := newLifecycle(op, o.opts.OnPhase)

	if !req.Gas.IsExplicit() {
		metrics.RecordPreconditionFailure(op, "gas_config")
		return nil, ErrGasConfigRequired
	}

	deployer := o.client.Account().Address
	log.Info("Deploying with account: %s", deployer.Hex())

	balance, err := o.client.Balance(ctx, deployer)
	if err != nil {
		return nil, fmt.Errorf("failed to get deployer balance: %w", err)
	}
	log.Info("Account balance: %s %s", units.FormatEther(balance), o.opts.Currency)

	if balance.Cmp(o.opts.MinBalance) < 0 {
		metrics.RecordPreconditionFailure(op, "insufficient_funds")
		return nil, &InsufficientFundsError{
			Address:  deployer,
			Balance:  balance,
			Required: o.opts.MinBalance,
			Currency: o.opts.Currency,
		}
	}

	data, err := o.binding.DeployData(req.ConstructorArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to build deployment: %w", err)
	}

	handle, err := o.client.Submit(ctx, ports.TxRequest{
		Data:     data,
		GasPrice: req.Gas.GasPrice,
		GasLimit: req.Gas.GasLimit,
	})
	if err != nil {
		metrics.RecordOutcome(op, metrics.OutcomeFailed)
		return nil, fmt.Errorf("failed to submit deployment: %w", err)
	}
	if err := lc.advance(PhaseSubmitted); err != nil {
		return nil, err
	}
	log.Info("Transaction hash: %s", handle.Hash.Hex())

	receipt, err := o.await(ctx, lc, handle)
	if err != nil {
		return nil, err
	}

	if lc.Phase() == PhaseReverted {
		msg := ports.CallMsg{From: deployer, Data: data}
		reason, revertData, ok := o.replayRevert(ctx, msg, receipt)
		if !ok {
			return nil, &UnknownRevertError{
				Operation:   op,
				TxHash:      receipt.TxHash,
				BlockNumber: receipt.BlockNumber,
				Data:        revertData,
			}
		}
		return nil, &DeploymentRevertedError{
			TxHash:      receipt.TxHash,
			BlockNumber: receipt.BlockNumber,
			Reason:      reason,
		}
	}

	if receipt.ContractAddress == (common.Address{}) {
		return nil, &VerificationError{TxHash: receipt.TxHash, Err: ErrNoCreatedAddress}
	}
	log.Debug("Contract created at %s", receipt.ContractAddress.Hex())

	info, err := o.binding.Info(ctx, receipt.ContractAddress)
	if err != nil {
		return nil, &VerificationError{
			Address: receipt.ContractAddress,
			TxHash:  receipt.TxHash,
			Err:     err,
		}
	}

	return &DeploymentRecord{
		ID:              uuid.NewString(),
		Network:         o.opts.Network,
		ContractAddress: receipt.ContractAddress.Hex(),
		DeployerAddress: deployer.Hex(),
		TransactionHash: receipt.TxHash.Hex(),
		BlockNumber:     receipt.BlockNumber,
		GasUsed:         fmt.Sprintf("%d", receipt.GasUsed),
		Timestamp:       o.now(),
		ContractInfo:    contractInfoFrom(info),
		Phase:           lc.Phase(),
	}, nil
}
