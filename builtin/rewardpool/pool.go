// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewardpool implements the token pool that funds staking rewards.
package rewardpool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/abi"
	"github.com/ldstaking/ldstake/builtin/gen"
	"github.com/ldstaking/ldstake/builtin/ownable"
	"github.com/ldstaking/ldstake/builtin/reverts"
	"github.com/ldstaking/ldstake/builtin/solidity"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/log"
	"github.com/ldstaking/ldstake/state"
)

var (
	ErrUnAuthorized                = reverts.New("UnAuthorized")
	ErrInsufficientRewardLiquidity = reverts.New("InsufficientRewardLiquidity")
)

var (
	logger = log.WithContext("pkg", "rewardpool")

	ABI                  = mustLoadABI()
	poolFundedEvent      = ABI.MustEventByName("PoolFunded")
	tokensWithdrawnEvent = ABI.MustEventByName("TokensWithdrawn")
	rewardsSentEvent     = ABI.MustEventByName("RewardsSent")
	stakingUpdatedEvent  = ABI.MustEventByName("StakingUpdated")

	slotStaking      = solidity.Slot("staking")
	slotToken        = solidity.Slot("token")
	slotPooledAmount = solidity.Slot("pooled-amount")
)

func mustLoadABI() *abi.ABI {
	a, err := abi.New(gen.MustABI("RewardPool"))
	if err != nil {
		panic(err)
	}
	return a
}

// Token is the subset of the LD token used by the pool.
type Token interface {
	Address() ld.Address
	BalanceOf(account ld.Address) (*big.Int, error)
	Transfer(caller, to ld.Address, amount *big.Int) error
	TransferFrom(caller, from, to ld.Address, amount *big.Int) error
}

// Pool holds the reward tokens and pays them out on request of the staking ledger.
type Pool struct {
	ctx *solidity.Context
	*ownable.Ownable
	token Token

	staking      *solidity.Address
	tokenAddr    *solidity.Address
	pooledAmount *solidity.Uint256
}

// New create a new instance. The token must be bound to the same state.
func New(addr ld.Address, st *state.State, token Token, emitter solidity.EmitFunc) *Pool {
	ctx := solidity.NewContext(addr, st, emitter)
	return &Pool{
		ctx:          ctx,
		Ownable:      ownable.New(ctx),
		token:        token,
		staking:      solidity.NewAddress(ctx, slotStaking),
		tokenAddr:    solidity.NewAddress(ctx, slotToken),
		pooledAmount: solidity.NewUint256(ctx, slotPooledAmount),
	}
}

func (p *Pool) Address() ld.Address {
	return p.ctx.Address()
}

// Initialize sets owner, staking ledger and token. It can only be called once.
func (p *Pool) Initialize(owner, staking, token ld.Address) error {
	current, err := p.Owner()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.ErrInvalidInitialization
	}
	if err := p.Init(owner); err != nil {
		return err
	}
	if staking.IsZero() {
		return reverts.ErrZeroAddress.With("Staking contract address can't be zero")
	}
	if token.IsZero() {
		return reverts.ErrZeroAddress.With("LDToken contract address can't be zero")
	}
	p.staking.Set(staking)
	p.tokenAddr.Set(token)
	return nil
}

//
// Getters - no state change
//

func (p *Pool) PooledAmount() (*big.Int, error) {
	return p.pooledAmount.Get()
}

// Balance returns the pool's actual token balance, which may exceed the pooled amount
// when tokens were sent to the pool directly.
func (p *Pool) Balance() (*big.Int, error) {
	return p.token.BalanceOf(p.Address())
}

func (p *Pool) Staking() (ld.Address, error) {
	return p.staking.Get()
}

func (p *Pool) Token() (ld.Address, error) {
	return p.tokenAddr.Get()
}

//
// Setters - state change
//

// FundPool pulls amount from the owner into the pool. The owner must have approved the pool.
func (p *Pool) FundPool(caller ld.Address, amount *big.Int) error {
	logger.Debug("funding pool", "caller", caller, "amount", amount)

	if err := p.OnlyOwner(caller); err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount.With("amount must be greater than zero")
	}
	if err := p.token.TransferFrom(p.Address(), caller, p.Address(), amount); err != nil {
		return err
	}
	if err := p.pooledAmount.Add(amount); err != nil {
		return err
	}
	if err := p.ctx.Emit(poolFundedEvent, []ld.Bytes32{caller.Topic()}, amount); err != nil {
		return err
	}

	logger.Info("pool funded", "caller", caller, "amount", amount)
	return nil
}

// WithdrawRemainingTokens sends the pool's entire token balance to the owner.
func (p *Pool) WithdrawRemainingTokens(caller ld.Address) error {
	logger.Debug("withdrawing pool", "caller", caller)

	if err := p.OnlyOwner(caller); err != nil {
		return err
	}
	balance, err := p.Balance()
	if err != nil {
		return err
	}
	if err := p.token.Transfer(p.Address(), caller, balance); err != nil {
		return err
	}
	if err := p.pooledAmount.Set(new(big.Int)); err != nil {
		return err
	}
	if err := p.ctx.Emit(tokensWithdrawnEvent, []ld.Bytes32{caller.Topic()}, balance); err != nil {
		return err
	}

	logger.Info("pool withdrawn", "to", caller, "amount", balance)
	return nil
}

// SendRewards pays amount to recipient. Only the staking ledger may call it.
func (p *Pool) SendRewards(caller ld.Address, amount *big.Int, recipient ld.Address) error {
	logger.Debug("sending rewards", "caller", caller, "recipient", recipient, "amount", amount)

	staking, err := p.staking.Get()
	if err != nil {
		return err
	}
	if caller != staking {
		return ErrUnAuthorized.With(caller)
	}
	balance, err := p.Balance()
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientRewardLiquidity.With(balance, amount)
	}
	if err := p.token.Transfer(p.Address(), recipient, amount); err != nil {
		return err
	}

	pooled, err := p.pooledAmount.Get()
	if err != nil {
		return err
	}
	if pooled.Cmp(amount) > 0 {
		pooled.Sub(pooled, amount)
	} else {
		pooled.SetUint64(0)
	}
	if err := p.pooledAmount.Set(pooled); err != nil {
		return errors.Wrap(err, "failed to update pooled amount")
	}
	if err := p.ctx.Emit(rewardsSentEvent, []ld.Bytes32{recipient.Topic()}, amount); err != nil {
		return err
	}

	logger.Info("rewards sent", "recipient", recipient, "amount", amount)
	return nil
}

// SetStaking points the pool at a new staking ledger.
func (p *Pool) SetStaking(caller, staking ld.Address) error {
	if err := p.OnlyOwner(caller); err != nil {
		return err
	}
	if staking.IsZero() {
		return reverts.ErrZeroAddress.With("Staking contract address can't be zero")
	}
	p.staking.Set(staking)
	return p.ctx.Emit(stakingUpdatedEvent, []ld.Bytes32{staking.Topic()})
}
