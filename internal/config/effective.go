package config

import (
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/musicnft/internal/units"
)

// Defaults for the Monad testnet.
const (
	DefaultNetwork        = "monadTestnet"
	DefaultRPCURL         = "https://testnet-rpc.monad.xyz"
	DefaultChainID        = 10143
	DefaultExplorerURL    = "https://testnet.monadexplorer.com"
	DefaultCurrency       = "MON"
	DefaultArtifact       = "artifacts/contracts/MusicNFT.sol/MusicNFT.json"
	DefaultMinBalance     = "0.1"
	DefaultGasPriceGwei   = "50"
	DefaultGasLimit       = 8_000_000
	DefaultConfirmTimeout = 2 * time.Minute
	DefaultListenAddr     = ":3000"
)

// WebEnv holds the values exposed to the web front end.
type WebEnv struct {
	DIDToken        StringValue
	PinataJWT       StringValue
	ContractAddress StringValue
}

// EffectiveConfig represents the final merged configuration after applying priority chain.
type EffectiveConfig struct {
	// Global settings
	Home    StringValue
	NoColor BoolValue
	Verbose BoolValue
	JSON    BoolValue

	MetricsFile StringValue

	// Network settings
	Network     StringValue
	RPCURL      StringValue
	ChainID     Uint64Value
	ExplorerURL StringValue
	Currency    StringValue

	// Deployment settings
	Artifact       StringValue
	MinBalance     StringValue
	GasPriceGwei   StringValue
	GasLimit       Uint64Value
	ConfirmTimeout DurationValue

	// Mint settings
	ContractAddress StringValue

	// Serve settings
	ListenAddr StringValue

	// Secrets, environment only
	PrivateKey StringValue
	Web        WebEnv

	// Metadata
	ConfigFilePath string // Path to loaded config file (empty if none)
}

// NewEffectiveConfig creates a new EffectiveConfig with default values.
func NewEffectiveConfig(defaultHomeDir string) *EffectiveConfig {
	return &EffectiveConfig{
		Home:            Default(defaultHomeDir),
		NoColor:         Default(false),
		Verbose:         Default(false),
		JSON:            Default(false),
		MetricsFile:     Default(""),
		Network:         Default(DefaultNetwork),
		RPCURL:          Default(DefaultRPCURL),
		ChainID:         Default[uint64](DefaultChainID),
		ExplorerURL:     Default(DefaultExplorerURL),
		Currency:        Default(DefaultCurrency),
		Artifact:        Default(DefaultArtifact),
		MinBalance:      Default(DefaultMinBalance),
		GasPriceGwei:    Default(DefaultGasPriceGwei),
		GasLimit:        Default[uint64](DefaultGasLimit),
		ConfirmTimeout:  Default(DefaultConfirmTimeout),
		ContractAddress: Default(""),
		ListenAddr:      Default(DefaultListenAddr),
		PrivateKey:      Default(""),
		Web: WebEnv{
			DIDToken:        Default(""),
			PinataJWT:       Default(""),
			ContractAddress: Default(""),
		},
	}
}

// GasPriceWei returns the configured gas price in wei.
func (c *EffectiveConfig) GasPriceWei() (*big.Int, error) {
	return units.ParseGwei(c.GasPriceGwei.Value)
}

// MinBalanceWei returns the configured minimum deployer balance in wei.
func (c *EffectiveConfig) MinBalanceWei() (*big.Int, error) {
	return units.ParseEther(c.MinBalance.Value)
}

// Contract returns the configured contract address and whether one is set.
func (c *EffectiveConfig) Contract() (common.Address, bool) {
	if c.ContractAddress.Value == "" || !common.IsHexAddress(c.ContractAddress.Value) {
		return common.Address{}, false
	}
	return common.HexToAddress(c.ContractAddress.Value), true
}

// ToTable writes the configuration as a formatted table.
func (c *EffectiveConfig) ToTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	fmt.Fprintf(tw, "home\t%s\t%s\n", c.Home.Value, c.Home.Source)
	fmt.Fprintf(tw, "no_color\t%t\t%s\n", c.NoColor.Value, c.NoColor.Source)
	fmt.Fprintf(tw, "verbose\t%t\t%s\n", c.Verbose.Value, c.Verbose.Source)
	fmt.Fprintf(tw, "json\t%t\t%s\n", c.JSON.Value, c.JSON.Source)
	fmt.Fprintf(tw, "metrics_file\t%s\t%s\n", orNotSet(c.MetricsFile.Value), c.MetricsFile.Source)
	fmt.Fprintf(tw, "network\t%s\t%s\n", c.Network.Value, c.Network.Source)
	fmt.Fprintf(tw, "rpc_url\t%s\t%s\n", c.RPCURL.Value, c.RPCURL.Source)
	fmt.Fprintf(tw, "chain_id\t%d\t%s\n", c.ChainID.Value, c.ChainID.Source)
	fmt.Fprintf(tw, "explorer_url\t%s\t%s\n", c.ExplorerURL.Value, c.ExplorerURL.Source)
	fmt.Fprintf(tw, "currency\t%s\t%s\n", c.Currency.Value, c.Currency.Source)
	fmt.Fprintf(tw, "artifact\t%s\t%s\n", c.Artifact.Value, c.Artifact.Source)
	fmt.Fprintf(tw, "min_balance\t%s\t%s\n", c.MinBalance.Value, c.MinBalance.Source)
	fmt.Fprintf(tw, "gas_price_gwei\t%s\t%s\n", c.GasPriceGwei.Value, c.GasPriceGwei.Source)
	fmt.Fprintf(tw, "gas_limit\t%d\t%s\n", c.GasLimit.Value, c.GasLimit.Source)
	fmt.Fprintf(tw, "confirm_timeout\t%s\t%s\n", c.ConfirmTimeout.Value, c.ConfirmTimeout.Source)
	fmt.Fprintf(tw, "contract_address\t%s\t%s\n", orNotSet(c.ContractAddress.Value), c.ContractAddress.Source)
	fmt.Fprintf(tw, "listen_addr\t%s\t%s\n", c.ListenAddr.Value, c.ListenAddr.Source)
	fmt.Fprintf(tw, "private_key\t%s\t%s\n", maskSecret(c.PrivateKey.Value), c.PrivateKey.Source)
	tw.Flush()
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

// maskSecret hides a secret for display.
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "********"
}
