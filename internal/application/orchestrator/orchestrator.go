// Package orchestrator drives deploy and mint transactions through their
// lifecycle: precondition checks, submission, confirmation and outcome
// classification.
package orchestrator

import (
	"math/big"
	"time"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/units"
)

// Defaults applied when Options leaves a field empty.
const (
	DefaultNetwork        = "monadTestnet"
	DefaultCurrency       = "MON"
	DefaultConfirmTimeout = 2 * time.Minute
	DefaultMinBalance     = "0.1"
)

// GasConfig holds explicit gas settings. A nil GasPrice or zero GasLimit
// leaves the value to the network client.
type GasConfig struct {
	GasPrice *big.Int
	GasLimit uint64
}

// IsExplicit reports whether both price and limit are set.
func (g GasConfig) IsExplicit() bool {
	return g.GasPrice != nil && g.GasPrice.Sign() > 0 && g.GasLimit > 0
}

// Options configures an Orchestrator.
type Options struct {
	Network        string
	Currency       string
	MinBalance     *big.Int
	ConfirmTimeout time.Duration
	Logger         ports.Logger
	// OnPhase is notified after every phase change.
	OnPhase PhaseFunc
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Orchestrator runs deploy and mint operations against one network client
// and contract binding.
type Orchestrator struct {
	client  ports.NetworkClient
	binding ports.ContractBinding
	opts    Options
}

// New creates an Orchestrator.
func New(client ports.NetworkClient, binding ports.ContractBinding, opts Options) *Orchestrator {
	if opts.Network == "" {
		opts.Network = DefaultNetwork
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if opts.MinBalance == nil {
		opts.MinBalance, _ = units.ParseEther(DefaultMinBalance)
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = DefaultConfirmTimeout
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Orchestrator{
		client:  client,
		binding: binding,
		opts:    opts,
	}
}

func (o *Orchestrator) now() time.Time {
	return o.opts.Clock().UTC()
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}
