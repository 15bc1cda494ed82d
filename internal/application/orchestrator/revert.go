package orchestrator

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/metrics"
)

const revertPrefix = "execution reverted: "

// paymentKeywords mark revert reasons that concern the attached value.
var paymentKeywords = []string{"payment", "price", "msg.value", "value sent"}

// await blocks for the receipt of handle and moves lc to its terminal phase.
// Once submitted the wait is detached from ctx cancellation; only the
// configured timeout bounds it.
func (o *Orchestrator) await(ctx context.Context, lc *lifecycle, handle *ports.TxHandle) (*ports.Receipt, error) {
	op := lc.operation
	started := time.Now()
	o.opts.Logger.Debug("Waiting for %s receipt of %s", op, handle)

	receipt, err := o.client.WaitForReceipt(context.WithoutCancel(ctx), handle, o.opts.ConfirmTimeout)
	if err != nil {
		if errors.Is(err, ports.ErrReceiptTimeout) {
			if advErr := lc.advance(PhaseDropped); advErr != nil {
				return nil, advErr
			}
			metrics.RecordOutcome(op, metrics.OutcomeDropped)
			return nil, &TimeoutError{
				Operation: op,
				TxHash:    handle.Hash,
				Timeout:   o.opts.ConfirmTimeout,
				Err:       err,
			}
		}
		metrics.RecordOutcome(op, metrics.OutcomeFailed)
		return nil, err
	}
	metrics.ObserveConfirmation(op, time.Since(started))

	if !receipt.Status {
		if err := lc.advance(PhaseReverted); err != nil {
			return nil, err
		}
		metrics.RecordOutcome(op, metrics.OutcomeReverted)
		return receipt, nil
	}

	if err := lc.advance(PhaseConfirmed); err != nil {
		return nil, err
	}
	metrics.RecordOutcome(op, metrics.OutcomeConfirmed)
	return receipt, nil
}

// replayRevert re-executes msg against the state the transaction saw and
// returns the decoded revert reason. data is the raw revert payload, if any.
func (o *Orchestrator) replayRevert(ctx context.Context, msg ports.CallMsg, receipt *ports.Receipt) (reason string, data []byte, ok bool) {
	var block *big.Int
	if receipt.BlockNumber > 0 {
		block = new(big.Int).SetUint64(receipt.BlockNumber - 1)
	}

	_, err := o.client.Call(ctx, msg, block)
	if err == nil {
		o.opts.Logger.Debug("replay of %s did not revert", receipt.TxHash.Hex())
		return "", nil, false
	}

	reason, data, ok = o.decodeRevertError(err)
	if !ok {
		o.opts.Logger.Debug("could not decode revert of %s: %v", receipt.TxHash.Hex(), err)
	}
	return reason, data, ok
}

// decodeRevertError extracts the revert reason from a Call or EstimateGas
// error.
func (o *Orchestrator) decodeRevertError(err error) (reason string, data []byte, ok bool) {
	var revertErr *ports.CallRevertError
	if !errors.As(err, &revertErr) {
		return "", nil, false
	}
	data = revertErr.Data
	if reason, ok := o.binding.DecodeRevert(data); ok {
		return reason, data, true
	}

	// Some nodes return the reason only in the message.
	if msg := revertErr.Message; strings.HasPrefix(msg, revertPrefix) {
		if reason := strings.TrimSpace(strings.TrimPrefix(msg, revertPrefix)); reason != "" {
			return reason, data, true
		}
	}
	return "", data, false
}

func isPaymentReason(reason string) bool {
	lower := strings.ToLower(reason)
	for _, kw := range paymentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
