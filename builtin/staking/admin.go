// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ldstaking/ldstake/builtin/reverts"
	"github.com/ldstaking/ldstake/ld"
)

// EnableStaking unlocks staking. A reward pool must be set first.
func (s *Staking) EnableStaking(caller ld.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	pool, err := s.pool.Get()
	if err != nil {
		return err
	}
	if pool.IsZero() {
		return reverts.ErrZeroAddress.With("Reward pool address can't be zero")
	}
	return s.setLock(false)
}

// DisableStaking locks staking. Existing positions can still be claimed and unstaked.
func (s *Staking) DisableStaking(caller ld.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	return s.setLock(true)
}

func (s *Staking) setLock(lock bool) error {
	current, err := s.lock.Get()
	if err != nil {
		return err
	}
	if current == lock {
		return nil
	}
	s.lock.Set(lock)
	logger.Info("staking lock updated", "lock", lock)
	return s.ctx.Emit(lockUpdatedEvent, nil, lock)
}

func (s *Staking) ChangeApr(caller ld.Address, newApr uint64) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	if newApr < ld.MinAprRate {
		return ErrInvalidAPR.With(newApr)
	}
	old, err := s.apr.Get()
	if err != nil {
		return err
	}
	next := new(big.Int).SetUint64(newApr)
	if err := s.apr.Set(next); err != nil {
		return err
	}
	logger.Info("apr changed", "old", old, "new", newApr)
	return s.ctx.Emit(aprChangedEvent, nil, old, next)
}

func (s *Staking) SetPool(caller, pool ld.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	if pool.IsZero() {
		return reverts.ErrZeroAddress.With("Reward pool address can't be zero")
	}
	s.pool.Set(pool)
	logger.Info("reward pool updated", "pool", pool)
	return s.ctx.Emit(poolUpdatedEvent, []ld.Bytes32{pool.Topic()})
}

func (s *Staking) ChangeTreasuryAddress(caller, treasury ld.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	if treasury.IsZero() {
		return reverts.ErrZeroAddress.With("Treasury address can't be zero")
	}
	current, err := s.treasury.Get()
	if err != nil {
		return err
	}
	if current == treasury {
		return nil
	}
	s.treasury.Set(treasury)
	logger.Info("treasury updated", "treasury", treasury)
	return s.ctx.Emit(treasuryUpdatedEvent, []ld.Bytes32{treasury.Topic()})
}

// DisableRewardClaims stops claimRewards and reStake. Unstaking is unaffected.
func (s *Staking) DisableRewardClaims(caller ld.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	return s.setClaimClosed(true)
}

func (s *Staking) EnableRewardClaims(caller ld.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	return s.setClaimClosed(false)
}

func (s *Staking) setClaimClosed(closed bool) error {
	current, err := s.claimClosed.Get()
	if err != nil {
		return err
	}
	if current == closed {
		return nil
	}
	s.claimClosed.Set(closed)
	logger.Info("reward claims status updated", "closed", closed)
	return s.ctx.Emit(claimsStatusUpdatedEvent, nil, closed)
}
