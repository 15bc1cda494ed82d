package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigWriter handles writing configuration to homeDir/config.toml.
type ConfigWriter struct {
	homeDir string
}

// NewConfigWriter creates a new ConfigWriter for the given home directory.
func NewConfigWriter(homeDir string) *ConfigWriter {
	return &ConfigWriter{
		homeDir: homeDir,
	}
}

// Path returns the full path to config.toml in homeDir.
func (w *ConfigWriter) Path() string {
	return filepath.Join(w.homeDir, "config.toml")
}

// Exists returns true if config.toml already exists in homeDir.
func (w *ConfigWriter) Exists() bool {
	_, err := os.Stat(w.Path())
	return err == nil
}

// Write saves the FileConfig to homeDir/config.toml.
// Creates homeDir if it doesn't exist.
func (w *ConfigWriter) Write(cfg *FileConfig) error {
	if err := os.MkdirAll(w.homeDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.homeDir, err)
	}

	if err := os.WriteFile(w.Path(), []byte(w.render(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// tomlEntry is one key of the generated file. value is nil when unset, in
// which case the default is written as a comment.
type tomlEntry struct {
	key      string
	value    *string
	fallback string
}

func quoted(s *string) *string {
	if s == nil {
		return nil
	}
	q := fmt.Sprintf("%q", *s)
	return &q
}

func boolText(b *bool) *string {
	if b == nil {
		return nil
	}
	s := fmt.Sprintf("%t", *b)
	return &s
}

func uintText(v *uint64) *string {
	if v == nil {
		return nil
	}
	s := fmt.Sprintf("%d", *v)
	return &s
}

// render creates TOML content with section comments.
func (w *ConfigWriter) render(cfg *FileConfig) string {
	if cfg == nil {
		cfg = &FileConfig{}
	}

	sections := []struct {
		title   string
		entries []tomlEntry
	}{
		{"Global Settings", []tomlEntry{
			{"home", quoted(cfg.Home), `"~/.musicnft"`},
			{"verbose", boolText(cfg.Verbose), "false"},
			{"json", boolText(cfg.JSON), "false"},
			{"no_color", boolText(cfg.NoColor), "false"},
			{"metrics_file", quoted(cfg.MetricsFile), `"/var/lib/node_exporter/textfile/musicnft.prom"`},
		}},
		{"Network Settings", []tomlEntry{
			{"network", quoted(cfg.Network), fmt.Sprintf("%q", DefaultNetwork)},
			{"rpc_url", quoted(cfg.RPCURL), fmt.Sprintf("%q", DefaultRPCURL)},
			{"chain_id", uintText(cfg.ChainID), fmt.Sprintf("%d", DefaultChainID)},
			{"explorer_url", quoted(cfg.ExplorerURL), fmt.Sprintf("%q", DefaultExplorerURL)},
			{"currency", quoted(cfg.Currency), fmt.Sprintf("%q", DefaultCurrency)},
		}},
		{"Deployment Settings", []tomlEntry{
			{"artifact", quoted(cfg.Artifact), fmt.Sprintf("%q", DefaultArtifact)},
			{"min_balance", quoted(cfg.MinBalance), fmt.Sprintf("%q", DefaultMinBalance)},
			{"gas_price_gwei", quoted(cfg.GasPriceGwei), fmt.Sprintf("%q", DefaultGasPriceGwei)},
			{"gas_limit", uintText(cfg.GasLimit), fmt.Sprintf("%d", DefaultGasLimit)},
			{"confirm_timeout", quoted(cfg.ConfirmTimeout), fmt.Sprintf("%q", DefaultConfirmTimeout)},
		}},
		{"Mint Settings", []tomlEntry{
			{"contract_address", quoted(cfg.ContractAddress), `""`},
		}},
		{"Serve Settings", []tomlEntry{
			{"listen_addr", quoted(cfg.ListenAddr), fmt.Sprintf("%q", DefaultListenAddr)},
		}},
	}

	var b strings.Builder
	b.WriteString("# musicnft configuration file\n")
	b.WriteString("# Priority: default < config.toml < .env < environment < CLI flag\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Location: %s\n", w.Path())
	b.WriteString("# Override with: --config /path/to/config.toml\n")
	b.WriteString("# PRIVATE_KEY is read from .env or the environment only.\n")

	rule := "# " + strings.Repeat("=", 77) + "\n"
	for _, section := range sections {
		b.WriteString("\n")
		b.WriteString(rule)
		fmt.Fprintf(&b, "# %s\n", section.title)
		b.WriteString(rule)
		b.WriteString("\n")
		for _, e := range section.entries {
			if e.value != nil {
				fmt.Fprintf(&b, "%s = %s\n", e.key, *e.value)
			} else {
				fmt.Fprintf(&b, "# %s = %s\n", e.key, e.fallback)
			}
		}
	}
	return b.String()
}
