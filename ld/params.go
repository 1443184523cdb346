// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ld

import (
	"math/big"
	"time"
)

// Constants of the staking ledger.
const (
	Day  uint64 = 24 * 60 * 60
	Week        = 7 * Day // length of one claim window in seconds

	WeeksPerYear uint64 = 52

	// AprDenominator scales apr rates with two implied decimals, 5000 means 50.00%.
	AprDenominator uint64 = 10000
	// MinAprRate is the smallest accepted apr, 1.00%.
	MinAprRate uint64 = 100

	TokenDecimals = 18

	DefaultTokenName   = "LD Token"
	DefaultTokenSymbol = "LD"
)

// Ether is one whole token in base units.
var Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

// Tokens returns n whole tokens in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Ether)
}

// Clock supplies the current time in unix seconds.
type Clock func() uint64

// SystemClock reads wall-clock time.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// FixedClock always returns t.
func FixedClock(t uint64) Clock {
	return func() uint64 { return t }
}
