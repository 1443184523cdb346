// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ld

import (
	"errors"
	"math/big"
	"strings"
)

// ParseAmount parses a token amount. Plain integers are base units, a trailing
// "ld" denotes whole tokens and may carry up to 18 fractional digits.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return nil, errors.New("empty amount")
	}
	if !strings.HasSuffix(s, "ld") {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok || v.Sign() < 0 {
			return nil, errors.New("invalid amount")
		}
		return v, nil
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, "ld"))
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > TokenDecimals {
		return nil, errors.New("too many decimal places")
	}
	frac += strings.Repeat("0", TokenDecimals-len(frac))
	if whole == "" {
		whole = "0"
	}
	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.New("invalid amount")
	}
	return v, nil
}

// FormatAmount renders base units as whole tokens with trailing zeros trimmed.
func FormatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(v, Ether, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := r.String()
	frac = strings.Repeat("0", TokenDecimals-len(frac)) + frac
	return q.String() + "." + strings.TrimRight(frac, "0")
}
