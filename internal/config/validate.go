package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/musicnft/internal/units"
)

// Validate validates the EffectiveConfig values against allowed ranges and types.
func (c *EffectiveConfig) Validate() error {
	if c.Network.Value == "" {
		return fmt.Errorf("invalid network: must not be empty")
	}

	if err := validateRPCURL(c.RPCURL.Value); err != nil {
		return err
	}

	if c.ChainID.Value == 0 {
		return fmt.Errorf("invalid chain_id: must be greater than 0")
	}

	if _, err := units.ParseEther(c.MinBalance.Value); err != nil {
		return fmt.Errorf("invalid min_balance %q: %w", c.MinBalance.Value, err)
	}

	if err := validateGasPrice(c.GasPriceGwei.Value); err != nil {
		return err
	}

	if c.GasLimit.Value == 0 {
		return fmt.Errorf("invalid gas_limit: must be greater than 0")
	}

	if c.ConfirmTimeout.Value <= 0 {
		return fmt.Errorf("invalid confirm_timeout: %s (must be positive)", c.ConfirmTimeout.Value)
	}

	if v := c.ContractAddress.Value; v != "" && !common.IsHexAddress(v) {
		return fmt.Errorf("invalid contract address: %s", v)
	}

	return nil
}

// ValidateFileConfig validates the FileConfig values before merging.
// This is called when loading the config file to provide early error messages.
func ValidateFileConfig(cfg *FileConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.RPCURL != nil {
		if err := validateRPCURL(*cfg.RPCURL); err != nil {
			return fmt.Errorf("%w in config file", err)
		}
	}

	if cfg.ChainID != nil && *cfg.ChainID == 0 {
		return fmt.Errorf("invalid chain_id in config file: must be greater than 0")
	}

	if cfg.MinBalance != nil {
		if _, err := units.ParseEther(*cfg.MinBalance); err != nil {
			return fmt.Errorf("invalid min_balance in config file: %w", err)
		}
	}

	if cfg.GasPriceGwei != nil {
		if err := validateGasPrice(*cfg.GasPriceGwei); err != nil {
			return fmt.Errorf("%w in config file", err)
		}
	}

	if cfg.GasLimit != nil && *cfg.GasLimit == 0 {
		return fmt.Errorf("invalid gas_limit in config file: must be greater than 0")
	}

	if cfg.ConfirmTimeout != nil {
		d, err := time.ParseDuration(*cfg.ConfirmTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid confirm_timeout in config file: %s (must be a positive duration like \"2m\")", *cfg.ConfirmTimeout)
		}
	}

	if cfg.ContractAddress != nil && *cfg.ContractAddress != "" && !common.IsHexAddress(*cfg.ContractAddress) {
		return fmt.Errorf("invalid contract_address in config file: %s", *cfg.ContractAddress)
	}

	return nil
}

func validateRPCURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid rpc_url: %q", raw)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return nil
	default:
		return fmt.Errorf("invalid rpc_url: %q (scheme must be http, https, ws or wss)", raw)
	}
}

func validateGasPrice(gwei string) error {
	price, err := units.ParseGwei(gwei)
	if err != nil {
		return fmt.Errorf("invalid gas_price_gwei %q: %w", gwei, err)
	}
	if price.Sign() <= 0 {
		return fmt.Errorf("invalid gas_price_gwei %q: must be greater than 0", gwei)
	}
	return nil
}
