package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvPrivateKey            = "PRIVATE_KEY"
	EnvRPCURL                = "RPC_URL"
	EnvContractAddress       = "CONTRACT_ADDRESS"
	EnvHome                  = "MUSICNFT_HOME"
	EnvNoColor               = "NO_COLOR"
	EnvPublicDIDToken        = "NEXT_PUBLIC_DID_TOKEN"
	EnvPublicPinataJWT       = "NEXT_PUBLIC_PINATA_JWT"
	EnvPublicContractAddress = "NEXT_PUBLIC_CONTRACT_ADDRESS"
)

// Env resolves variables from the process environment, falling back to
// values read from .env files. The process environment is never modified.
type Env struct {
	dotenv map[string]string
	lookup func(string) (string, bool)
}

// LoadEnv reads the given .env files. Missing files are skipped; later
// files do not override keys set by earlier ones.
func LoadEnv(paths ...string) (*Env, error) {
	env := &Env{dotenv: make(map[string]string), lookup: os.LookupEnv}
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range values {
			if _, exists := env.dotenv[k]; !exists {
				env.dotenv[k] = v
			}
		}
	}
	return env, nil
}

// NewEnv creates an Env from explicit values. lookup may be nil.
func NewEnv(dotenv map[string]string, lookup func(string) (string, bool)) *Env {
	if dotenv == nil {
		dotenv = map[string]string{}
	}
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &Env{dotenv: dotenv, lookup: lookup}
}

// Get returns the non-empty value of key and where it came from.
func (e *Env) Get(key string) (string, ConfigSource, bool) {
	if e == nil {
		return "", "", false
	}
	if v, ok := e.lookup(key); ok && v != "" {
		return v, SourceEnvironment, true
	}
	if v, ok := e.dotenv[key]; ok && v != "" {
		return v, SourceDotEnv, true
	}
	return "", "", false
}

// Value returns the value of key or "" when unset.
func (e *Env) Value(key string) string {
	v, _, _ := e.Get(key)
	return v
}
