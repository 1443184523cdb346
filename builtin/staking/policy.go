// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"
)

// UnstakePolicy decides what happens to accrued rewards when principal is withdrawn.
type UnstakePolicy string

const (
	// PolicyKeep returns principal only. lastClaimed is untouched.
	PolicyKeep UnstakePolicy = "keep"
	// PolicyClaim pays the accrued reward before returning principal.
	PolicyClaim UnstakePolicy = "claim"
)

func (p UnstakePolicy) IsValid() bool {
	return p == PolicyKeep || p == PolicyClaim
}

// ParseUnstakePolicy parses a policy name, the empty string selects PolicyKeep.
func ParseUnstakePolicy(s string) (UnstakePolicy, error) {
	if s == "" {
		return PolicyKeep, nil
	}
	p := UnstakePolicy(s)
	if !p.IsValid() {
		return "", errors.Errorf("unknown unstake policy %q", s)
	}
	return p, nil
}
