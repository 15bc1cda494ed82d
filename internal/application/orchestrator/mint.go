package orchestrator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/metrics"
	"github.com/altuslabsxyz/musicnft/internal/nft"
	"github.com/altuslabsxyz/musicnft/internal/units"
)

// MintRequest describes a mint of one track.
type MintRequest struct {
	// Contract is the deployed MusicNFT address.
	Contract common.Address
	// Recipient receives the token. Defaults to the signing account.
	Recipient common.Address
	Track     nft.Track
	// TokenURI defaults to the track's metadata encoded as a data URI.
	TokenURI string
	// Payment defaults to the mint price read just before submission.
	Payment *big.Int
	Gas     GasConfig
}

// Mint reads the current price, submits mintMusicNFT with that payment and
// extracts the minted token from the receipt.
func (o *Orchestrator) Mint(ctx context.Context, req MintRequest) (*MintRecord, error) {
	const op = metrics.OperationMint
	log := o.opts.Logger
	lc := newLifecycle(op, o.opts.OnPhase)

	if req.Contract == (common.Address{}) {
		metrics.RecordPreconditionFailure(op, "no_contract")
		return nil, ErrNoContractAddress
	}
	if err := req.Track.Validate(); err != nil {
		metrics.RecordPreconditionFailure(op, "invalid_track")
		return nil, err
	}

	minter := o.client.Account().Address
	recipient := req.Recipient
	if recipient == (common.Address{}) {
		recipient = minter
	}
	log.Info("Minting with account: %s", minter.Hex())

	tokenURI := req.TokenURI
	if tokenURI == "" {
		uri, err := nft.EncodeTokenURI(nft.BuildMetadata(req.Track))
		if err != nil {
			return nil, err
		}
		tokenURI = uri
	}

	// The price is read on every call; it may change between mints.
	price, err := o.binding.MintPrice(ctx, req.Contract)
	if err != nil {
		return nil, fmt.Errorf("failed to read mint price: %w", err)
	}
	log.Info("Mint price: %s %s", units.FormatEther(price), o.opts.Currency)

	payment := req.Payment
	if payment == nil {
		payment = new(big.Int).Set(price)
	}
	if payment.Cmp(price) < 0 {
		metrics.RecordPreconditionFailure(op, "payment_mismatch")
		return nil, &PaymentMismatchError{Sent: payment, Required: price, Currency: o.opts.Currency}
	}

	data, err := o.binding.MintData(ports.MintCall{To: recipient, Track: req.Track, TokenURI: tokenURI})
	if err != nil {
		return nil, err
	}
	msg := ports.CallMsg{From: minter, To: &req.Contract, Value: payment, Data: data}

	gasLimit := req.Gas.GasLimit
	if gasLimit == 0 {
		gasLimit, err = o.client.EstimateGas(ctx, msg)
		if _, reverted := ports.RevertData(err); reverted {
			metrics.RecordPreconditionFailure(op, "estimate_reverted")
			reason, revertData, ok := o.decodeRevertError(err)
			return nil, o.classifyMintRevert(reason, revertData, ok, nil, payment, price)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas for mint: %w", err)
		}
		log.Debug("Estimated gas: %d", gasLimit)
	}

	handle, err := o.client.Submit(ctx, ports.TxRequest{
		To:       &req.Contract,
		Value:    payment,
		Data:     data,
		GasPrice: req.Gas.GasPrice,
		GasLimit: gasLimit,
	})
	if err != nil {
		metrics.RecordOutcome(op, metrics.OutcomeFailed)
		return nil, fmt.Errorf("failed to submit mint: %w", err)
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
		reason, revertData, ok := o.replayRevert(ctx, msg, receipt)
		return nil, o.classifyMintRevert(reason, revertData, ok, receipt, payment, price)
	}
	log.Debug("Mint confirmed in block %d", receipt.BlockNumber)

	record := &MintRecord{
		ID:              uuid.NewString(),
		Network:         o.opts.Network,
		ContractAddress: req.Contract.Hex(),
		Minter:          minter.Hex(),
		Recipient:       recipient.Hex(),
		TransactionHash: receipt.TxHash.Hex(),
		BlockNumber:     receipt.BlockNumber,
		GasUsed:         fmt.Sprintf("%d", receipt.GasUsed),
		Price:           units.FormatEther(payment),
		UserTokens:      []string{},
		Timestamp:       o.now(),
		Phase:           lc.Phase(),
	}

	if ev, ok := o.binding.FindMinted(req.Contract, receipt.Logs); ok {
		record.TokenID = ev.TokenID.String()
		record.Owner = ev.Owner.Hex()
		record.Title = ev.Title
		record.Artist = ev.Artist
	} else {
		anomaly := "MusicNFTMinted event not found in receipt logs"
		log.Warn("%s (tx %s)", anomaly, receipt.TxHash.Hex())
		record.Anomalies = append(record.Anomalies, anomaly)
	}

	tokens, err := o.binding.UserTokens(ctx, req.Contract, minter)
	if err != nil {
		anomaly := fmt.Sprintf("failed to read user tokens: %v", err)
		log.Warn("%s", anomaly)
		record.Anomalies = append(record.Anomalies, anomaly)
	}
	for _, id := range tokens {
		record.UserTokens = append(record.UserTokens, id.String())
	}

	return record, nil
}

// classifyMintRevert turns a decoded revert into the mint error taxonomy.
// receipt is nil when the revert surfaced during gas estimation, before
// anything was submitted.
func (o *Orchestrator) classifyMintRevert(reason string, data []byte, ok bool, receipt *ports.Receipt, payment, price *big.Int) error {
	var (
		txHash common.Hash
		block  uint64
	)
	if receipt != nil {
		txHash, block = receipt.TxHash, receipt.BlockNumber
	}
	estimated := receipt == nil

	if !ok {
		return &UnknownRevertError{
			Operation:   metrics.OperationMint,
			TxHash:      txHash,
			BlockNumber: block,
			Data:        data,
			Estimated:   estimated,
		}
	}

	revert := &MintRevertedError{
		TxHash:      txHash,
		BlockNumber: block,
		Reason:      reason,
		Estimated:   estimated,
	}
	if isPaymentReason(reason) {
		return &PaymentMismatchError{
			Sent:     payment,
			Required: price,
			Currency: o.opts.Currency,
			Revert:   revert,
		}
	}
	return revert
}
