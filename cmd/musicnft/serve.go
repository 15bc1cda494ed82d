package main

import (
	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/musicnft/internal/config"
	"github.com/altuslabsxyz/musicnft/internal/webconfig"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web app runtime configuration",
		Long: `Serve window._env_ for the web front end at GET /api/env, together with
GET /healthz and GET /metrics.

Values come from NEXT_PUBLIC_DID_TOKEN, NEXT_PUBLIC_PINATA_JWT and
NEXT_PUBLIC_CONTRACT_ADDRESS. Without NEXT_PUBLIC_CONTRACT_ADDRESS the
configured contract address is exposed.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagListenAddr, "listen", config.DefaultListenAddr,
		"Address to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := effectiveCfg

	values := webconfig.Values{
		DIDToken:        cfg.Web.DIDToken.Value,
		PinataJWT:       cfg.Web.PinataJWT.Value,
		ContractAddress: cfg.Web.ContractAddress.Value,
	}
	if values.ContractAddress == "" {
		values.ContractAddress = cfg.ContractAddress.Value
	}

	opts := []log.Option{log.ColorOption(!cfg.NoColor.Value)}
	if cfg.JSON.Value {
		opts = append(opts, log.OutputJSONOption())
	}
	logger := log.NewLogger(cmd.ErrOrStderr(), opts...)

	router, err := webconfig.NewRouter(values, logger)
	if err != nil {
		return handleCommandError(cmd, err)
	}

	logger.Info("serving web config", "addr", cfg.ListenAddr.Value)
	if err := webconfig.ListenAndServe(cmd.Context(), cfg.ListenAddr.Value, router, logger); err != nil {
		return handleCommandError(cmd, err)
	}
	return nil
}
