package config

import "time"

// ConfigSource represents the origin of a configuration value.
type ConfigSource string

// Sources in increasing priority.
const (
	SourceDefault     ConfigSource = "default"
	SourceConfigFile  ConfigSource = "config.toml"
	SourceDotEnv      ConfigSource = ".env"
	SourceEnvironment ConfigSource = "environment"
	SourceFlag        ConfigSource = "flag"
)

func (s ConfigSource) String() string {
	return string(s)
}

// Value is a configuration value together with the source that set it.
type Value[T any] struct {
	Value  T
	Source ConfigSource
}

// IsSet reports whether the value came from anywhere but the defaults.
func (v Value[T]) IsSet() bool {
	return v.Source != SourceDefault
}

// Default returns v attributed to SourceDefault.
func Default[T any](v T) Value[T] {
	return Value[T]{Value: v, Source: SourceDefault}
}

type (
	StringValue   = Value[string]
	Uint64Value   = Value[uint64]
	BoolValue     = Value[bool]
	DurationValue = Value[time.Duration]
)
