package config

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// ApplyFile applies non-nil values from a config file.
func (c *EffectiveConfig) ApplyFile(f *FileConfig, path string) error {
	if f == nil {
		return nil
	}
	c.ConfigFilePath = path

	applyString(&c.Home, f.Home)
	applyBool(&c.NoColor, f.NoColor)
	applyBool(&c.Verbose, f.Verbose)
	applyBool(&c.JSON, f.JSON)
	applyString(&c.MetricsFile, f.MetricsFile)
	applyString(&c.Network, f.Network)
	applyString(&c.RPCURL, f.RPCURL)
	applyUint64(&c.ChainID, f.ChainID)
	applyString(&c.ExplorerURL, f.ExplorerURL)
	applyString(&c.Currency, f.Currency)
	applyString(&c.Artifact, f.Artifact)
	applyString(&c.MinBalance, f.MinBalance)
	applyString(&c.GasPriceGwei, f.GasPriceGwei)
	applyUint64(&c.GasLimit, f.GasLimit)
	applyString(&c.ContractAddress, f.ContractAddress)
	applyString(&c.ListenAddr, f.ListenAddr)

	if f.ConfirmTimeout != nil {
		d, err := time.ParseDuration(*f.ConfirmTimeout)
		if err != nil {
			return fmt.Errorf("invalid confirm_timeout %q: %w", *f.ConfirmTimeout, err)
		}
		c.ConfirmTimeout = DurationValue{Value: d, Source: SourceConfigFile}
	}
	return nil
}

// ApplyEnv applies environment variables. This handles the priority:
// config.toml < .env < environment.
func (c *EffectiveConfig) ApplyEnv(env *Env) {
	applyEnvString(&c.Home, env, EnvHome)
	applyEnvString(&c.RPCURL, env, EnvRPCURL)
	applyEnvString(&c.ContractAddress, env, EnvContractAddress)
	applyEnvString(&c.PrivateKey, env, EnvPrivateKey)
	applyEnvString(&c.Web.DIDToken, env, EnvPublicDIDToken)
	applyEnvString(&c.Web.PinataJWT, env, EnvPublicPinataJWT)
	applyEnvString(&c.Web.ContractAddress, env, EnvPublicContractAddress)

	// NO_COLOR disables color whenever it is present, regardless of value.
	if _, source, ok := env.Get(EnvNoColor); ok {
		c.NoColor = BoolValue{Value: true, Source: source}
	}
}

// ApplyStringFlag applies a string flag if it was explicitly set on the command line.
func ApplyStringFlag(cmd *cobra.Command, flagName string, flagValue string, target *StringValue) {
	if flagChanged(cmd, flagName) {
		*target = StringValue{Value: flagValue, Source: SourceFlag}
	}
}

// ApplyBoolFlag applies a bool flag if it was explicitly set on the command line.
// This is critical for preventing boolean false from overriding config true values.
func ApplyBoolFlag(cmd *cobra.Command, flagName string, flagValue bool, target *BoolValue) {
	if flagChanged(cmd, flagName) {
		*target = BoolValue{Value: flagValue, Source: SourceFlag}
	}
}

// ApplyUint64Flag applies an unsigned flag if it was explicitly set on the command line.
func ApplyUint64Flag(cmd *cobra.Command, flagName string, flagValue uint64, target *Uint64Value) {
	if flagChanged(cmd, flagName) {
		*target = Uint64Value{Value: flagValue, Source: SourceFlag}
	}
}

// ApplyDurationFlag applies a duration flag if it was explicitly set on the command line.
func ApplyDurationFlag(cmd *cobra.Command, flagName string, flagValue time.Duration, target *DurationValue) {
	if flagChanged(cmd, flagName) {
		*target = DurationValue{Value: flagValue, Source: SourceFlag}
	}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func applyString(target *StringValue, v *string) {
	if v != nil {
		*target = StringValue{Value: *v, Source: SourceConfigFile}
	}
}

func applyBool(target *BoolValue, v *bool) {
	if v != nil {
		*target = BoolValue{Value: *v, Source: SourceConfigFile}
	}
}

func applyUint64(target *Uint64Value, v *uint64) {
	if v != nil {
		*target = Uint64Value{Value: *v, Source: SourceConfigFile}
	}
}

func applyEnvString(target *StringValue, env *Env, key string) {
	if v, source, ok := env.Get(key); ok {
		*target = StringValue{Value: v, Source: source}
	}
}
