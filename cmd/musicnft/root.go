package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/musicnft/internal/config"
	"github.com/altuslabsxyz/musicnft/internal/output"
)

// Global configuration variables
var (
	homeDir     string
	jsonMode    bool
	noColor     bool
	verbose     bool
	configPath  string // Path to config.toml file (--config flag)
	rpcURL      string
	metricsFile string

	// effectiveCfg holds the merged configuration for the running command.
	effectiveCfg *config.EffectiveConfig
)

// dotEnvFiles are read in order; earlier files win.
var dotEnvFiles = []string{".env"}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "musicnft",
		Short: "Deploy and mint MusicNFT contracts on Monad",
		Long: `musicnft deploys the MusicNFT contract to an EVM network, mints example
tracks against it and serves the runtime configuration used by the web app.

Configuration priority: defaults < config.toml < .env < environment < flags.

Examples:
  # Deploy with the gas settings from config.toml
  musicnft deploy

  # Mint the example track against the last deployment
  musicnft mint-example

  # Serve window._env_ for the front end
  musicnft serve --listen :3000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEffectiveConfig(cmd)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			effectiveCfg = cfg

			output.DefaultLogger.SetNoColor(cfg.NoColor.Value)
			output.DefaultLogger.SetVerbose(cfg.Verbose.Value)
			output.DefaultLogger.SetJSONMode(cfg.JSON.Value)

			if cfg.ConfigFilePath != "" {
				output.DefaultLogger.Debug("Using config file: %s", cfg.ConfigFilePath)
			}
			return nil
		},
	}

	// Global flags available on all commands
	cmd.PersistentFlags().StringVarP(&homeDir, "home", "H", config.DefaultHomeDir(),
		"Base directory for musicnft data")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false,
		"Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.toml file")
	cmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", "",
		"JSON-RPC endpoint (overrides RPC_URL)")
	cmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"Write transaction metrics to this file when the command finishes")

	cmd.AddCommand(
		NewDeployCmd(),
		NewMintExampleCmd(),
		NewServeCmd(),
		NewRecordsCmd(),
		NewConfigCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// loadEffectiveConfig merges defaults, config files, .env, the environment
// and explicitly set flags.
func loadEffectiveConfig(cmd *cobra.Command) (*config.EffectiveConfig, error) {
	env, err := config.LoadEnv(dotEnvFiles...)
	if err != nil {
		return nil, err
	}

	cfg := config.NewEffectiveConfig(config.DefaultHomeDir())

	// The home directory decides which config.toml is read, so resolve it first.
	home := homeDir
	if !cmd.Flags().Changed("home") {
		if v := env.Value(config.EnvHome); v != "" {
			home = v
		}
	}

	loader := config.NewConfigLoader(home, configPath, output.DefaultLogger)
	fileCfg, path, err := loader.LoadFileConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFile(fileCfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(env)

	config.ApplyStringFlag(cmd, "home", homeDir, &cfg.Home)
	config.ApplyBoolFlag(cmd, "json", jsonMode, &cfg.JSON)
	config.ApplyBoolFlag(cmd, "no-color", noColor, &cfg.NoColor)
	config.ApplyBoolFlag(cmd, "verbose", verbose, &cfg.Verbose)
	config.ApplyStringFlag(cmd, "rpc-url", rpcURL, &cfg.RPCURL)
	config.ApplyStringFlag(cmd, "metrics-file", metricsFile, &cfg.MetricsFile)
	applyCommandFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Command-local flag values. Each command registers the subset it uses.
var (
	flagArtifact       string
	flagMinBalance     string
	flagGasPriceGwei   string
	flagGasLimit       uint64
	flagConfirmTimeout = config.DefaultConfirmTimeout
	flagContract       string
	flagListenAddr     string
)

func applyCommandFlags(cmd *cobra.Command, cfg *config.EffectiveConfig) {
	config.ApplyStringFlag(cmd, "artifact", flagArtifact, &cfg.Artifact)
	config.ApplyStringFlag(cmd, "min-balance", flagMinBalance, &cfg.MinBalance)
	config.ApplyStringFlag(cmd, "gas-price-gwei", flagGasPriceGwei, &cfg.GasPriceGwei)
	config.ApplyUint64Flag(cmd, "gas-limit", flagGasLimit, &cfg.GasLimit)
	config.ApplyDurationFlag(cmd, "confirm-timeout", flagConfirmTimeout, &cfg.ConfirmTimeout)
	config.ApplyStringFlag(cmd, "contract", flagContract, &cfg.ContractAddress)
	config.ApplyStringFlag(cmd, "listen", flagListenAddr, &cfg.ListenAddr)
}

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
