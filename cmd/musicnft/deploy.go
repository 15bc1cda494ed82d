package main

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/musicnft/internal/application/orchestrator"
	"github.com/altuslabsxyz/musicnft/internal/config"
)

func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a new MusicNFT contract",
		Long: `Deploy a new MusicNFT contract from the compiled hardhat artifact.

The deployer must hold at least min_balance. Gas price and gas limit are
always sent explicitly. Every run creates a new contract.

Examples:
  # Deploy to the Monad testnet
  musicnft deploy

  # Deploy with a higher gas price
  musicnft deploy --gas-price-gwei 60`,
		Args: cobra.NoArgs,
		RunE: runDeploy,
	}

	cmd.Flags().StringVar(&flagArtifact, "artifact", config.DefaultArtifact,
		"Path to the compiled contract artifact")
	cmd.Flags().StringVar(&flagMinBalance, "min-balance", config.DefaultMinBalance,
		"Minimum deployer balance in ether units")
	cmd.Flags().StringVar(&flagGasPriceGwei, "gas-price-gwei", config.DefaultGasPriceGwei,
		"Gas price in gwei")
	cmd.Flags().Uint64Var(&flagGasLimit, "gas-limit", config.DefaultGasLimit,
		"Gas limit for the deployment")
	cmd.Flags().DurationVar(&flagConfirmTimeout, "confirm-timeout", config.DefaultConfirmTimeout,
		"How long to wait for the receipt")

	return cmd
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := effectiveCfg

	gasPrice, err := cfg.GasPriceWei()
	if err != nil {
		return handleCommandError(cmd, err)
	}

	a, err := openApp(ctx, cfg, true)
	if err != nil {
		return handleCommandError(cmd, err)
	}
	defer a.Close()

	a.reporter.DeployStarted(cfg.Network.Value)

	rec, err := a.orch.Deploy(ctx, orchestrator.DeployRequest{
		Gas: orchestrator.GasConfig{
			GasPrice: gasPrice,
			GasLimit: cfg.GasLimit.Value,
		},
	})
	if err != nil {
		return handleCommandError(cmd, err)
	}

	if err := a.records.PutDeployment(ctx, rec); err != nil {
		a.logger.Warn("Failed to save deployment record: %v", err)
	}

	return a.reporter.Deployment(rec)
}
