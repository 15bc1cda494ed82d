package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/altuslabsxyz/musicnft/internal/application/orchestrator"
	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/config"
	"github.com/altuslabsxyz/musicnft/internal/contract"
	"github.com/altuslabsxyz/musicnft/internal/infrastructure/evm"
	"github.com/altuslabsxyz/musicnft/internal/metrics"
	"github.com/altuslabsxyz/musicnft/internal/output"
	"github.com/altuslabsxyz/musicnft/internal/report"
	"github.com/altuslabsxyz/musicnft/internal/store"
)

var errNoPrivateKey = errors.New("PRIVATE_KEY is not set")

// newNetworkClient connects to the configured network with the signing key.
var newNetworkClient = func(ctx context.Context, cfg *config.EffectiveConfig) (ports.NetworkClient, error) {
	if cfg.PrivateKey.Value == "" {
		return nil, withHint(errNoPrivateKey, "Add PRIVATE_KEY=<hex key> to .env or export it")
	}
	client, err := evm.Dial(ctx, cfg.RPCURL.Value, cfg.PrivateKey.Value)
	if err != nil {
		return nil, withHint(err, fmt.Sprintf("Check that %s is reachable", cfg.RPCURL.Value))
	}
	return client, nil
}

// app bundles the collaborators shared by the transaction commands.
type app struct {
	cfg      *config.EffectiveConfig
	logger   *output.Logger
	client   ports.NetworkClient
	binding  *contract.MusicNFT
	orch     *orchestrator.Orchestrator
	records  *store.BoltStore
	reporter *report.Reporter
	spinner  *output.Spinner
}

// openApp dials the network, checks the chain ID, loads the contract binding
// and opens the record store. needBytecode requires a compiled artifact.
func openApp(ctx context.Context, cfg *config.EffectiveConfig, needBytecode bool) (*app, error) {
	logger := output.DefaultLogger

	binding, err := loadBinding(cfg, needBytecode)
	if err != nil {
		return nil, err
	}

	client, err := newNetworkClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to read chain ID: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != cfg.ChainID.Value {
		client.Close()
		return nil, withHint(
			fmt.Errorf("connected to chain %s, expected %d", chainID, cfg.ChainID.Value),
			"Set chain_id in config.toml to match rpc_url",
		)
	}
	logger.Debug("Connected to %s (chain %s)", cfg.RPCURL.Value, chainID)

	records, err := store.OpenInHome(cfg.Home.Value)
	if err != nil {
		client.Close()
		return nil, err
	}

	minBalance, err := cfg.MinBalanceWei()
	if err != nil {
		client.Close()
		records.Close()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		records:  records,
		reporter: report.New(logger, cfg.ExplorerURL.Value, cfg.Currency.Value),
	}
	if !logger.IsJSONMode() && stderrIsTerminal() {
		a.spinner = output.NewSpinner(os.Stderr)
	}

	a.binding = contract.New(binding.ABI(), binding.Bytecode(), client)
	a.orch = orchestrator.New(client, a.binding, orchestrator.Options{
		Network:        cfg.Network.Value,
		Currency:       cfg.Currency.Value,
		MinBalance:     minBalance,
		ConfirmTimeout: cfg.ConfirmTimeout.Value,
		Logger:         logger,
		OnPhase:        a.onPhase,
	})
	return a, nil
}

// onPhase shows a spinner while a transaction is pending.
func (a *app) onPhase(operation string, phase orchestrator.Phase) {
	a.logger.Debug("%s: %s", operation, phase)
	if a.spinner == nil {
		return
	}
	switch {
	case phase == orchestrator.PhaseSubmitted:
		a.spinner.Start("Waiting for confirmation")
	case phase.IsTerminal():
		a.spinner.Stop()
	}
}

// Close releases the app and flushes metrics to metrics_file, if set.
func (a *app) Close() {
	if a.spinner != nil {
		a.spinner.Stop()
	}
	if path := a.cfg.MetricsFile.Value; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			a.logger.Warn("%v", err)
		}
	}
	if err := a.records.Close(); err != nil {
		a.logger.Debug("Failed to close record store: %v", err)
	}
	if err := a.client.Close(); err != nil {
		a.logger.Debug("Failed to close network client: %v", err)
	}
}

// loadBinding loads the hardhat artifact. Without one, the built-in ABI is
// used, which is enough for minting but not for deployment.
func loadBinding(cfg *config.EffectiveConfig, needBytecode bool) (*contract.MusicNFT, error) {
	artifact, err := contract.LoadArtifact(cfg.Artifact.Value)
	switch {
	case err == nil:
		if needBytecode && len(artifact.Bytecode) == 0 {
			return nil, withHint(contract.ErrNoBytecode,
				fmt.Sprintf("%s has no bytecode; recompile with 'npx hardhat compile'", cfg.Artifact.Value))
		}
		return contract.NewFromArtifact(artifact, nil), nil
	case errors.Is(err, fs.ErrNotExist) && !needBytecode:
		return contract.NewDefault(nil)
	case errors.Is(err, fs.ErrNotExist):
		return nil, withHint(err, "Compile the contract with 'npx hardhat compile' or set artifact in config.toml")
	default:
		return nil, err
	}
}
