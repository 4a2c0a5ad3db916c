package model

import (
	"math/big"
	"strings"
)

// ParseAmount parses a base-10 integer token amount. Malformed or empty
// values degrade to zero rather than failing; amounts never carry fractional
// or floating-point representations.
func ParseAmount(raw string) *big.Int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return new(big.Int)
	}
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return new(big.Int)
	}
	return value
}

// AmountPositive reports whether the amount parses to a value > 0.
func AmountPositive(raw string) bool {
	return ParseAmount(raw).Sign() > 0
}

// AmountCovers reports whether have is at least need, both base-10 strings.
func AmountCovers(have, need string) bool {
	return ParseAmount(have).Cmp(ParseAmount(need)) >= 0
}
