package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.toml"

// DefaultHomeDir returns ~/.musicnft, or ./.musicnft when the user home
// directory cannot be determined.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".musicnft"
	}
	return filepath.Join(home, ".musicnft")
}

// Warner receives non-fatal loader diagnostics.
type Warner interface {
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// ConfigLoader is responsible for loading and merging configuration.
type ConfigLoader struct {
	homeDir    string
	configPath string // Explicit --config path
	logger     Warner
}

// NewConfigLoader creates a new ConfigLoader. logger may be nil.
func NewConfigLoader(homeDir, configPath string, logger Warner) *ConfigLoader {
	return &ConfigLoader{
		homeDir:    homeDir,
		configPath: configPath,
		logger:     logger,
	}
}

// LoadFileConfig merges every config file found, lowest priority first:
// <home>/config.toml, ./config.toml, then the --config path. It returns the
// merged FileConfig and the highest priority file that was read.
func (l *ConfigLoader) LoadFileConfig() (*FileConfig, string, error) {
	files, err := l.candidates()
	if err != nil {
		return nil, "", err
	}

	merged := &FileConfig{}
	primary := ""
	for _, path := range files {
		cfg, err := l.decodeFile(path)
		if err != nil {
			return nil, "", err
		}
		mergeFileConfig(merged, cfg)
		primary = path
		l.debug("Loaded config file: %s", path)
	}

	if err := ValidateFileConfig(merged); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}
	return merged, primary, nil
}

// candidates lists existing config files without duplicates. A missing
// explicit path is an error; the implicit locations are optional.
func (l *ConfigLoader) candidates() ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, path)
		}
	}

	for _, path := range []string{filepath.Join(l.homeDir, ConfigFileName), ConfigFileName} {
		if _, err := os.Stat(path); err == nil {
			add(path)
		}
	}

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", l.configPath)
		}
		add(l.configPath)
	}
	return files, nil
}

// decodeFile parses one file. Unknown keys are reported and ignored.
func (l *ConfigLoader) decodeFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err = dec.Decode(&cfg)

	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		for _, missing := range strict.Errors {
			l.warn("Unknown config key in %s: %s", path, strings.Join(missing.Key(), "."))
		}
		cfg = FileConfig{}
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

func (l *ConfigLoader) warn(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Warn(format, args...)
	}
}

func (l *ConfigLoader) debug(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(format, args...)
	}
}

func override[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst.
func mergeFileConfig(dst, src *FileConfig) {
	override(&dst.Home, src.Home)
	override(&dst.NoColor, src.NoColor)
	override(&dst.Verbose, src.Verbose)
	override(&dst.MetricsFile, src.MetricsFile)
	override(&dst.JSON, src.JSON)
	override(&dst.Network, src.Network)
	override(&dst.RPCURL, src.RPCURL)
	override(&dst.ChainID, src.ChainID)
	override(&dst.ExplorerURL, src.ExplorerURL)
	override(&dst.Currency, src.Currency)
	override(&dst.Artifact, src.Artifact)
	override(&dst.MinBalance, src.MinBalance)
	override(&dst.GasPriceGwei, src.GasPriceGwei)
	override(&dst.GasLimit, src.GasLimit)
	override(&dst.ConfirmTimeout, src.ConfirmTimeout)
	override(&dst.ContractAddress, src.ContractAddress)
	override(&dst.ListenAddr, src.ListenAddr)
}
