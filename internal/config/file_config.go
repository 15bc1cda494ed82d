package config

// FileConfig represents the raw config.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Global settings
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`
	JSON    *bool   `toml:"json"`

	// MetricsFile receives transaction metrics when deploy or mint-example
	// finishes (node_exporter textfile format).
	MetricsFile *string `toml:"metrics_file"`

	// Network settings
	Network     *string `toml:"network"` // Network name recorded in deployment records
	RPCURL      *string `toml:"rpc_url"`
	ChainID     *uint64 `toml:"chain_id"`
	ExplorerURL *string `toml:"explorer_url"`
	Currency    *string `toml:"currency"` // Native currency symbol, e.g. "MON"

	// Deployment settings
	Artifact       *string `toml:"artifact"`       // Path to the compiled hardhat artifact
	MinBalance     *string `toml:"min_balance"`    // Decimal amount in the native currency
	GasPriceGwei   *string `toml:"gas_price_gwei"` // Decimal gwei
	GasLimit       *uint64 `toml:"gas_limit"`
	ConfirmTimeout *string `toml:"confirm_timeout"` // Go duration, e.g. "2m"

	// Mint settings
	ContractAddress *string `toml:"contract_address"`

	// Serve settings
	ListenAddr *string `toml:"listen_addr"`
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.MetricsFile == nil &&
		f.Network == nil &&
		f.RPCURL == nil &&
		f.ChainID == nil &&
		f.ExplorerURL == nil &&
		f.Currency == nil &&
		f.Artifact == nil &&
		f.MinBalance == nil &&
		f.GasPriceGwei == nil &&
		f.GasLimit == nil &&
		f.ConfirmTimeout == nil &&
		f.ContractAddress == nil &&
		f.ListenAddr == nil
}
