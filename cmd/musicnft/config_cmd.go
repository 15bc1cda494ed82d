package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/musicnft/internal/config"
	"github.com/altuslabsxyz/musicnft/internal/output"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
		Long: `Show the configuration after merging defaults, config.toml, .env, the
environment and flags, with the source of every value. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}

	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if effectiveCfg.ConfigFilePath != "" {
		output.DefaultLogger.Info("Config file: %s\n", effectiveCfg.ConfigFilePath)
	}
	effectiveCfg.ToTable(cmd.OutOrStdout())
	return nil
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config.toml to the home directory",
		Long: `Write config.toml to the home directory. Values that are currently set
by flags, the environment or an existing file are written out; everything
else is listed as a commented default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := config.NewConfigWriter(effectiveCfg.Home.Value)
			if w.Exists() && !force {
				return handleCommandError(cmd, withHint(
					fmt.Errorf("%s already exists", w.Path()),
					"Use --force to overwrite it",
				))
			}
			if err := w.Write(fileConfigFrom(effectiveCfg)); err != nil {
				return handleCommandError(cmd, err)
			}
			output.DefaultLogger.Success("Wrote %s", w.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.toml")
	return cmd
}

// fileConfigFrom keeps the non-default, non-secret values of cfg.
func fileConfigFrom(cfg *config.EffectiveConfig) *config.FileConfig {
	f := &config.FileConfig{}
	str := func(v config.StringValue) *string {
		if !v.IsSet() {
			return nil
		}
		s := v.Value
		return &s
	}
	f.MetricsFile = str(cfg.MetricsFile)
	f.RPCURL = str(cfg.RPCURL)
	f.Network = str(cfg.Network)
	f.ExplorerURL = str(cfg.ExplorerURL)
	f.Currency = str(cfg.Currency)
	f.Artifact = str(cfg.Artifact)
	f.MinBalance = str(cfg.MinBalance)
	f.GasPriceGwei = str(cfg.GasPriceGwei)
	f.ContractAddress = str(cfg.ContractAddress)
	f.ListenAddr = str(cfg.ListenAddr)
	if cfg.ChainID.Source != config.SourceDefault {
		v := cfg.ChainID.Value
		f.ChainID = &v
	}
	if cfg.GasLimit.Source != config.SourceDefault {
		v := cfg.GasLimit.Value
		f.GasLimit = &v
	}
	if cfg.ConfirmTimeout.Source != config.SourceDefault {
		v := cfg.ConfirmTimeout.Value.String()
		f.ConfirmTimeout = &v
	}
	return f
}
