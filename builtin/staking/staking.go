// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the LD staking ledger. Accounts lock LD tokens in
// positions and claim a fixed apr, paid weekly from the reward pool.
package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/abi"
	"github.com/ldstaking/ldstake/builtin/gen"
	"github.com/ldstaking/ldstake/builtin/ownable"
	"github.com/ldstaking/ldstake/builtin/reverts"
	"github.com/ldstaking/ldstake/builtin/rewardpool"
	"github.com/ldstaking/ldstake/builtin/solidity"
	"github.com/ldstaking/ldstake/builtin/staking/position"
	"github.com/ldstaking/ldstake/builtin/staking/reward"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/log"
	"github.com/ldstaking/ldstake/state"
)

var (
	ErrInvalidAPR                  = reverts.New("InvalidAPR")
	ErrStakingNotStarted           = reverts.New("StakingNotStarted")
	ErrStakeNotFound               = reverts.New("StakeNotFound")
	ErrWindowNotOpen               = reverts.New("ClaimOrUnstakeWindowNotOpen")
	ErrNotSufficientStake          = reverts.New("NotsufficientStake")
	ErrClaimsClosed                = reverts.New("ClaimsClosed")
	ErrInsufficientRewardLiquidity = rewardpool.ErrInsufficientRewardLiquidity
)

var (
	logger = log.WithContext("pkg", "staking")

	ABI                      = mustLoadABI()
	stakedEvent              = ABI.MustEventByName("Staked")
	rewardClaimedEvent       = ABI.MustEventByName("RewardClaimed")
	unstakeEvent             = ABI.MustEventByName("Unstake")
	lockUpdatedEvent         = ABI.MustEventByName("LockUpdated")
	aprChangedEvent          = ABI.MustEventByName("AprChanged")
	poolUpdatedEvent         = ABI.MustEventByName("PoolUpdated")
	treasuryUpdatedEvent     = ABI.MustEventByName("TreasuryUpdated")
	claimsStatusUpdatedEvent = ABI.MustEventByName("ClaimsStatusUpdated")

	slotToken       = solidity.Slot("ld-token")
	slotPool        = solidity.Slot("reward-pool")
	slotTreasury    = solidity.Slot("treasury")
	slotApr         = solidity.Slot("apr-rate")
	slotTotalStaked = solidity.Slot("total-staked")
	slotLock        = solidity.Slot("lock")
	slotClaimClosed = solidity.Slot("claim-closed")
	slotPolicy      = solidity.Slot("unstake-policy")
)

func mustLoadABI() *abi.ABI {
	a, err := abi.New(gen.MustABI("LdStaking"))
	if err != nil {
		panic(err)
	}
	return a
}

// Token is the subset of the LD token used by the ledger.
type Token interface {
	BalanceOf(account ld.Address) (*big.Int, error)
	Transfer(caller, to ld.Address, amount *big.Int) error
	TransferFrom(caller, from, to ld.Address, amount *big.Int) error
}

// Pool pays out rewards on behalf of the ledger.
type Pool interface {
	SendRewards(caller ld.Address, amount *big.Int, recipient ld.Address) error
}

// PoolLookup resolves the contract deployed at a reward pool address.
type PoolLookup func(addr ld.Address) (Pool, bool)

// Staking implements the staking ledger contract.
type Staking struct {
	ctx *solidity.Context
	*ownable.Ownable
	token     Token
	pools     PoolLookup
	positions *position.Service

	tokenAddr   *solidity.Address
	pool        *solidity.Address
	treasury    *solidity.Address
	apr         *solidity.Uint256
	totalStaked *solidity.Uint256
	lock        *solidity.Bool
	claimClosed *solidity.Bool
	policy      *solidity.Value[string]
}

// New create a new instance. token and pools must be bound to the same state.
func New(addr ld.Address, st *state.State, token Token, pools PoolLookup, emitter solidity.EmitFunc) *Staking {
	sctx := solidity.NewContext(addr, st, emitter)
	return &Staking{
		ctx:       sctx,
		Ownable:   ownable.New(sctx),
		token:     token,
		pools:     pools,
		positions: position.NewService(sctx),

		tokenAddr:   solidity.NewAddress(sctx, slotToken),
		pool:        solidity.NewAddress(sctx, slotPool),
		treasury:    solidity.NewAddress(sctx, slotTreasury),
		apr:         solidity.NewUint256(sctx, slotApr),
		totalStaked: solidity.NewUint256(sctx, slotTotalStaked),
		lock:        solidity.NewBool(sctx, slotLock, true),
		claimClosed: solidity.NewBool(sctx, slotClaimClosed, false),
		policy:      solidity.NewValue[string](sctx, slotPolicy),
	}
}

func (s *Staking) Address() ld.Address {
	return s.ctx.Address()
}

// Initialize deploys the ledger locked, with the treasury set to the owner.
func (s *Staking) Initialize(owner ld.Address, apr uint64, token ld.Address, policy UnstakePolicy) error {
	current, err := s.Owner()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.ErrInvalidInitialization
	}
	if err := s.Init(owner); err != nil {
		return err
	}
	if token.IsZero() {
		return reverts.ErrZeroAddress.With("LDToken contract address can't be zero")
	}
	if apr < ld.MinAprRate {
		return ErrInvalidAPR.With(apr)
	}
	if !policy.IsValid() {
		return errors.Errorf("invalid unstake policy %q", policy)
	}
	if err := s.apr.Set(new(big.Int).SetUint64(apr)); err != nil {
		return err
	}
	if err := s.policy.Set(string(policy)); err != nil {
		return err
	}
	s.tokenAddr.Set(token)
	s.treasury.Set(owner)
	s.lock.Set(true)
	s.claimClosed.Set(false)
	return nil
}

//
// Getters - no state change
//

func (s *Staking) Token() (ld.Address, error) {
	return s.tokenAddr.Get()
}

func (s *Staking) RewardPool() (ld.Address, error) {
	return s.pool.Get()
}

func (s *Staking) Treasury() (ld.Address, error) {
	return s.treasury.Get()
}

func (s *Staking) AprRate() (uint64, error) {
	apr, err := s.apr.Get()
	if err != nil {
		return 0, err
	}
	return apr.Uint64(), nil
}

func (s *Staking) TotalStakedAmount() (*big.Int, error) {
	return s.totalStaked.Get()
}

// Lock returns true while staking is disabled.
func (s *Staking) Lock() (bool, error) {
	return s.lock.Get()
}

func (s *Staking) ClaimClosed() (bool, error) {
	return s.claimClosed.Get()
}

func (s *Staking) UnstakePolicy() (UnstakePolicy, error) {
	policy, err := s.policy.Get()
	if err != nil {
		return "", err
	}
	if policy == "" {
		return PolicyKeep, nil
	}
	return UnstakePolicy(policy), nil
}

func (s *Staking) StakeCount(account ld.Address) (uint64, error) {
	return s.positions.Count(account)
}

// GetUserStake returns the position at index, StakeNotFound if the index was never used.
func (s *Staking) GetUserStake(account ld.Address, index uint64) (*position.Position, error) {
	pos, err := s.positions.Get(account, index)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, ErrStakeNotFound.With(account, index)
	}
	return pos, nil
}

// Stakes returns all positions of account, emptied ones included.
func (s *Staking) Stakes(account ld.Address) ([]*position.Position, error) {
	return s.positions.All(account)
}

// PendingReward returns what a claim at now would pay, without checking the pool.
func (s *Staking) PendingReward(account ld.Address, index uint64, now uint64) (*reward.Accrual, error) {
	pos, err := s.GetUserStake(account, index)
	if err != nil {
		return nil, err
	}
	apr, err := s.AprRate()
	if err != nil {
		return nil, err
	}
	return reward.Evaluate(pos.StakedAmount, apr, pos.LastClaimed, now)
}
