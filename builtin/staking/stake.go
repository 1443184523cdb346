// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/builtin/reverts"
	"github.com/ldstaking/ldstake/builtin/staking/position"
	"github.com/ldstaking/ldstake/builtin/staking/reward"
	"github.com/ldstaking/ldstake/ld"
)

// StakeLd pulls amount from account and opens a new position at now.
// The account must have approved the ledger for amount.
func (s *Staking) StakeLd(account ld.Address, amount *big.Int, now uint64) (uint64, error) {
	logger.Debug("staking", "account", account, "amount", amount)

	index, err := s.stake(account, amount, now)
	if err != nil {
		logger.Info("stake failed", "account", account, "error", err)
		return 0, err
	}

	logger.Info("staked", "account", account, "index", index, "amount", amount)
	return index, nil
}

func (s *Staking) stake(account ld.Address, amount *big.Int, now uint64) (uint64, error) {
	locked, err := s.lock.Get()
	if err != nil {
		return 0, err
	}
	if locked {
		return 0, ErrStakingNotStarted
	}
	if amount.Sign() <= 0 {
		return 0, reverts.ErrInvalidAmount.With("amount must be greater than zero")
	}
	if err := s.token.TransferFrom(s.Address(), account, s.Address(), amount); err != nil {
		return 0, err
	}
	index, err := s.positions.Append(account, position.New(amount, now))
	if err != nil {
		return 0, err
	}
	if err := s.totalStaked.Add(amount); err != nil {
		return 0, err
	}
	if err := s.ctx.Emit(stakedEvent, []ld.Bytes32{account.Topic()}, amount); err != nil {
		return 0, err
	}
	return index, nil
}

// ClaimRewards pays the whole weeks accrued on a position to account.
func (s *Staking) ClaimRewards(account ld.Address, index uint64, now uint64) (*big.Int, error) {
	logger.Debug("claiming rewards", "account", account, "index", index)

	amount, err := s.claim(account, index, now, account)
	if err != nil {
		logger.Info("claim failed", "account", account, "index", index, "error", err)
		return nil, err
	}

	logger.Info("claimed rewards", "account", account, "index", index, "amount", amount)
	return amount, nil
}

// ReStake adds the accrued reward of a position to its stake.
func (s *Staking) ReStake(account ld.Address, index uint64, now uint64) (*big.Int, error) {
	logger.Debug("restaking", "account", account, "index", index)

	amount, err := s.claim(account, index, now, s.Address())
	if err != nil {
		logger.Info("restake failed", "account", account, "index", index, "error", err)
		return nil, err
	}

	logger.Info("restaked", "account", account, "index", index, "amount", amount)
	return amount, nil
}

// claim pays the reward of a position to recipient. Paying to the ledger itself compounds it into the stake.
func (s *Staking) claim(account ld.Address, index uint64, now uint64, recipient ld.Address) (*big.Int, error) {
	closed, err := s.claimClosed.Get()
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, ErrClaimsClosed
	}
	pos, err := s.GetUserStake(account, index)
	if err != nil {
		return nil, err
	}
	acc, err := s.accrue(pos, now)
	if err != nil {
		return nil, err
	}
	if err := s.payout(acc.Amount, recipient); err != nil {
		return nil, err
	}

	pos.LastClaimed = acc.LastClaimed
	if recipient == s.Address() {
		pos.StakedAmount.Add(pos.StakedAmount, acc.Amount)
		if err := s.totalStaked.Add(acc.Amount); err != nil {
			return nil, err
		}
	}
	if err := s.positions.Update(account, index, pos); err != nil {
		return nil, err
	}
	if err := s.ctx.Emit(rewardClaimedEvent, []ld.Bytes32{account.Topic()}, acc.Amount); err != nil {
		return nil, err
	}
	return acc.Amount, nil
}

// UnstakeLD returns amount of principal from a position to account.
func (s *Staking) UnstakeLD(account ld.Address, amount *big.Int, index uint64, now uint64) error {
	logger.Debug("unstaking", "account", account, "index", index, "amount", amount)

	if err := s.unstake(account, amount, index, now); err != nil {
		logger.Info("unstake failed", "account", account, "index", index, "error", err)
		return err
	}

	logger.Info("unstaked", "account", account, "index", index, "amount", amount)
	return nil
}

func (s *Staking) unstake(account ld.Address, amount *big.Int, index uint64, now uint64) error {
	if amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount.With("amount must be greater than zero")
	}
	pos, err := s.GetUserStake(account, index)
	if err != nil {
		return err
	}
	acc, err := s.accrue(pos, now)
	if err != nil {
		return err
	}
	if amount.Cmp(pos.StakedAmount) > 0 {
		return ErrNotSufficientStake.With(pos.StakedAmount, amount)
	}

	policy, err := s.UnstakePolicy()
	if err != nil {
		return err
	}
	closed, err := s.claimClosed.Get()
	if err != nil {
		return err
	}
	if policy == PolicyClaim && !closed {
		if err := s.payout(acc.Amount, account); err != nil {
			return err
		}
		pos.LastClaimed = acc.LastClaimed
		if err := s.ctx.Emit(rewardClaimedEvent, []ld.Bytes32{account.Topic()}, acc.Amount); err != nil {
			return err
		}
	}

	if err := s.token.Transfer(s.Address(), account, amount); err != nil {
		return err
	}
	pos.StakedAmount.Sub(pos.StakedAmount, amount)
	if err := s.positions.Update(account, index, pos); err != nil {
		return err
	}
	if err := s.totalStaked.Sub(amount); err != nil {
		return errors.Wrap(err, "total staked amount out of sync")
	}
	return s.ctx.Emit(unstakeEvent, []ld.Bytes32{account.Topic()}, amount)
}

// accrue evaluates a position at now and enforces the weekly window.
func (s *Staking) accrue(pos *position.Position, now uint64) (*reward.Accrual, error) {
	apr, err := s.AprRate()
	if err != nil {
		return nil, err
	}
	acc, err := reward.Evaluate(pos.StakedAmount, apr, pos.LastClaimed, now)
	if err != nil {
		return nil, err
	}
	if acc.Weeks == 0 {
		return nil, ErrWindowNotOpen.With(pos.LastClaimed, now)
	}
	return acc, nil
}

// payout has the reward pool send amount to recipient. A zero amount is a no-op.
func (s *Staking) payout(amount *big.Int, recipient ld.Address) error {
	if amount.Sign() == 0 {
		return nil
	}
	poolAddr, err := s.pool.Get()
	if err != nil {
		return err
	}
	if poolAddr.IsZero() {
		return reverts.ErrZeroAddress.With("Reward pool address can't be zero")
	}
	balance, err := s.token.BalanceOf(poolAddr)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientRewardLiquidity.With(balance, amount)
	}
	pool, ok := s.pools(poolAddr)
	if !ok {
		return errors.Errorf("no reward pool deployed at %v", poolAddr)
	}
	return pool.SendRewards(s.Address(), amount, recipient)
}
