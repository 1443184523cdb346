// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward computes the simple, non compounding staking reward.
//
// A position earns aprRate/10000 of its stake per 52 weeks, paid in whole weeks only:
//
//	reward = stakedAmount * aprRate * weeks / (10000 * 52)
//
// The product is evaluated in 256 bit arithmetic and divided once, so rounding
// never depends on how the weeks are split between claims.
package reward

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ldstaking/ldstake/builtin/reverts"
	"github.com/ldstaking/ldstake/ld"
)

var ErrRewardOverflow = reverts.New("RewardOverflow")

var denominator = uint256.NewInt(ld.AprDenominator * ld.WeeksPerYear)

// Accrual is the result of evaluating a position at a point in time.
type Accrual struct {
	Weeks       uint64
	Amount      *big.Int
	LastClaimed uint64 // value of lastClaimed once the accrual is paid
}

// WeeksElapsed returns the number of whole weeks between lastClaimed and now.
// A clock behind lastClaimed yields zero.
func WeeksElapsed(lastClaimed, now uint64) uint64 {
	if now < lastClaimed {
		return 0
	}
	return (now - lastClaimed) / ld.Week
}

// Advance moves lastClaimed forward by the paid weeks.
func Advance(lastClaimed, weeks uint64) uint64 {
	return lastClaimed + weeks*ld.Week
}

// Compute returns staked * apr * weeks / 520000, failing when the product exceeds 256 bits.
func Compute(staked *big.Int, apr, weeks uint64) (*big.Int, error) {
	if staked.Sign() < 0 {
		return nil, reverts.ErrInvalidAmount.With(staked)
	}
	amount, overflow := uint256.FromBig(staked)
	if overflow {
		return nil, ErrRewardOverflow.With(staked)
	}
	if _, overflow := amount.MulOverflow(amount, uint256.NewInt(apr)); overflow {
		return nil, ErrRewardOverflow.With(staked, apr)
	}
	if _, overflow := amount.MulOverflow(amount, uint256.NewInt(weeks)); overflow {
		return nil, ErrRewardOverflow.With(staked, apr, weeks)
	}
	return amount.Div(amount, denominator).ToBig(), nil
}

// Evaluate computes what a claim at now would pay for a position.
func Evaluate(staked *big.Int, apr, lastClaimed, now uint64) (*Accrual, error) {
	weeks := WeeksElapsed(lastClaimed, now)
	amount, err := Compute(staked, apr, weeks)
	if err != nil {
		return nil, err
	}
	return &Accrual{
		Weeks:       weeks,
		Amount:      amount,
		LastClaimed: Advance(lastClaimed, weeks),
	}, nil
}
