// Package units converts between wei and human-readable decimal amounts.
package units

import (
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// EtherDecimals is the number of decimals of the native currency.
const EtherDecimals = 18

// GweiDecimals is the number of decimals of a gwei amount.
const GweiDecimals = 9

// FormatEther renders a wei amount as a decimal ether string ("0.1", "2.0").
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// FormatUnits renders v scaled down by 10^decimals, trimming trailing zeros
// but keeping at least one fractional digit.
func FormatUnits(v *big.Int, decimals int64) string {
	if v == nil {
		return "0.0"
	}
	s := sdkmath.LegacyNewDecFromBigIntWithPrec(v, decimals).String()
	if !strings.Contains(s, ".") {
		return s + ".0"
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// ParseEther parses a decimal ether string into wei.
func ParseEther(s string) (*big.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// ParseGwei parses a decimal gwei string into wei.
func ParseGwei(s string) (*big.Int, error) {
	return ParseUnits(s, GweiDecimals)
}

// ParseUnits parses a non-negative decimal string into an integer scaled by
// 10^decimals. Digits beyond the given precision are rejected.
func ParseUnits(s string, decimals int64) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}
	if decimals < 0 || decimals > EtherDecimals {
		return nil, fmt.Errorf("unsupported decimals: %d", decimals)
	}

	dec, err := sdkmath.LegacyNewDecFromStr(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if dec.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: must be non-negative", s)
	}

	scaled := dec.BigInt()
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals-decimals), nil)
	quo, rem := new(big.Int).QuoRem(scaled, divisor, new(big.Int))
	if rem.Sign() != 0 {
		return nil, fmt.Errorf("invalid amount %q: more than %d decimal places", s, decimals)
	}
	return quo, nil
}
