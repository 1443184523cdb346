// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"
)

// Position is a single stake of an account.
// Positions are never deleted, an unstaked position stays addressable with zero stake.
type Position struct {
	StakedAmount *big.Int
	LastClaimed  uint64
}

func New(amount *big.Int, now uint64) *Position {
	return &Position{
		StakedAmount: new(big.Int).Set(amount),
		LastClaimed:  now,
	}
}

// IsEmpty returns true if nothing is staked on the position.
func (p *Position) IsEmpty() bool {
	return p.StakedAmount == nil || p.StakedAmount.Sign() == 0
}

// Clone returns a deep copy.
func (p *Position) Clone() *Position {
	staked := new(big.Int)
	if p.StakedAmount != nil {
		staked.Set(p.StakedAmount)
	}
	return &Position{StakedAmount: staked, LastClaimed: p.LastClaimed}
}
