package main

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/musicnft/internal/output"
	"github.com/altuslabsxyz/musicnft/internal/report"
	"github.com/altuslabsxyz/musicnft/internal/store"
)

func NewRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List recorded deployments and mints",
		Long: `List the deployments recorded for the configured network and the mints
made against the configured (or most recent) contract.`,
		Args: cobra.NoArgs,
		RunE: runRecords,
	}

	cmd.Flags().StringVar(&flagContract, "contract", "",
		"Only list mints for this contract")

	return cmd
}

func runRecords(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := effectiveCfg

	records, err := store.OpenInHome(cfg.Home.Value)
	if err != nil {
		return handleCommandError(cmd, err)
	}
	defer records.Close()

	deployments, err := records.ListDeployments(ctx, cfg.Network.Value)
	if err != nil {
		return handleCommandError(cmd, err)
	}

	contract := cfg.ContractAddress.Value
	if contract == "" && len(deployments) > 0 {
		contract = deployments[len(deployments)-1].ContractAddress
	}
	mints, err := records.ListMints(ctx, contract)
	if err != nil {
		return handleCommandError(cmd, err)
	}

	rep := report.New(output.DefaultLogger, cfg.ExplorerURL.Value, cfg.Currency.Value)
	return rep.Records(deployments, mints)
}
