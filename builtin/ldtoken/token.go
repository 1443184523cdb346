// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ldtoken implements the LD token, a plain 18 decimals fungible token.
package ldtoken

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

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
	ErrInvalidReceiver       = reverts.New("ERC20InvalidReceiver")
	ErrInvalidSender         = reverts.New("ERC20InvalidSender")
	ErrInsufficientBalance   = reverts.New("ERC20InsufficientBalance")
	ErrInsufficientAllowance = reverts.New("ERC20InsufficientAllowance")
	ErrInvalidApprover       = reverts.New("ERC20InvalidApprover")
	ErrInvalidSpender        = reverts.New("ERC20InvalidSpender")
)

var (
	logger = log.WithContext("pkg", "ldtoken")

	ABI           = mustLoadABI()
	transferEvent = ABI.MustEventByName("Transfer")
	approvalEvent = ABI.MustEventByName("Approval")

	slotName        = solidity.Slot("name")
	slotSymbol      = solidity.Slot("symbol")
	slotTotalSupply = solidity.Slot("totalSupply")
	slotBalances    = solidity.Slot("balances")
	slotAllowances  = solidity.Slot("allowances")
)

func mustLoadABI() *abi.ABI {
	a, err := abi.New(gen.MustABI("LdToken"))
	if err != nil {
		panic(err)
	}
	return a
}

// Token implements the LD token contract.
type Token struct {
	ctx *solidity.Context
	*ownable.Ownable

	name        *solidity.Value[string]
	symbol      *solidity.Value[string]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[ld.Address, *big.Int]
	allowances  *solidity.Mapping[ld.Bytes32, *big.Int]
}

// New create a new instance. emitter may be nil for read only access.
func New(addr ld.Address, st *state.State, emitter solidity.EmitFunc) *Token {
	ctx := solidity.NewContext(addr, st, emitter)
	return &Token{
		ctx:         ctx,
		Ownable:     ownable.New(ctx),
		name:        solidity.NewValue[string](ctx, slotName),
		symbol:      solidity.NewValue[string](ctx, slotSymbol),
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		balances:    solidity.NewMapping[ld.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[ld.Bytes32, *big.Int](ctx, slotAllowances),
	}
}

func (t *Token) Address() ld.Address {
	return t.ctx.Address()
}

// Initialize sets up the token. It can only be called once.
func (t *Token) Initialize(owner ld.Address, name, symbol string) error {
	current, err := t.Owner()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.ErrInvalidInitialization
	}
	if err := t.Init(owner); err != nil {
		return err
	}
	if err := t.name.Set(name); err != nil {
		return err
	}
	return t.symbol.Set(symbol)
}

//
// Getters - no state change
//

func (t *Token) Name() (string, error) {
	return t.name.Get()
}

func (t *Token) Symbol() (string, error) {
	return t.symbol.Get()
}

func (t *Token) Decimals() uint8 {
	return ld.TokenDecimals
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(account ld.Address) (*big.Int, error) {
	return t.getBig(t.balances.Get(account))
}

func (t *Token) Allowance(owner, spender ld.Address) (*big.Int, error) {
	return t.getBig(t.allowances.Get(allowanceKey(owner, spender)))
}

//
// Setters - state change
//

// Transfer moves amount from caller to to.
func (t *Token) Transfer(caller, to ld.Address, amount *big.Int) error {
	return t.transfer(caller, to, amount)
}

// TransferFrom moves amount from from to to using the caller's allowance.
func (t *Token) TransferFrom(caller, from, to ld.Address, amount *big.Int) error {
	if err := t.spendAllowance(from, caller, amount); err != nil {
		return err
	}
	return t.transfer(from, to, amount)
}

// Approve sets the allowance of spender over the caller's tokens.
func (t *Token) Approve(caller, spender ld.Address, amount *big.Int) error {
	return t.approve(caller, spender, amount, true)
}

// Mint creates amount tokens for to. Owner only.
func (t *Token) Mint(caller, to ld.Address, amount *big.Int) error {
	logger.Debug("minting", "to", to, "amount", amount)

	if err := t.OnlyOwner(caller); err != nil {
		return err
	}
	if to.IsZero() {
		return ErrInvalidReceiver.With(to)
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	if err := t.ctx.Emit(transferEvent, []ld.Bytes32{ld.Address{}.Topic(), to.Topic()}, amount); err != nil {
		return err
	}

	logger.Info("minted", "to", to, "amount", amount)
	return nil
}

func (t *Token) transfer(from, to ld.Address, amount *big.Int) error {
	if from.IsZero() {
		return ErrInvalidSender.With(from)
	}
	if to.IsZero() {
		return ErrInvalidReceiver.With(to)
	}
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount.With(amount)
	}

	fromBalance, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance.With(from, fromBalance, amount)
	}
	if err := t.balances.Set(from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	return t.ctx.Emit(transferEvent, []ld.Bytes32{from.Topic(), to.Topic()}, amount)
}

func (t *Token) addBalance(account ld.Address, amount *big.Int) error {
	balance, err := t.BalanceOf(account)
	if err != nil {
		return err
	}
	return t.balances.Set(account, balance.Add(balance, amount))
}

func (t *Token) approve(owner, spender ld.Address, amount *big.Int, emit bool) error {
	if owner.IsZero() {
		return ErrInvalidApprover.With(owner)
	}
	if spender.IsZero() {
		return ErrInvalidSpender.With(spender)
	}
	if amount.Sign() < 0 || amount.BitLen() > 256 {
		return reverts.ErrInvalidAmount.With(amount)
	}
	if err := t.allowances.Set(allowanceKey(owner, spender), amount); err != nil {
		return err
	}
	if !emit {
		return nil
	}
	return t.ctx.Emit(approvalEvent, []ld.Bytes32{owner.Topic(), spender.Topic()}, amount)
}

// spendAllowance deducts amount from the allowance, an unlimited allowance is left untouched.
func (t *Token) spendAllowance(owner, spender ld.Address, amount *big.Int) error {
	allowance, err := t.Allowance(owner, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(math.MaxBig256) == 0 {
		return nil
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance.With(spender, allowance, amount)
	}
	return t.approve(owner, spender, new(big.Int).Sub(allowance, amount), false)
}

func (t *Token) getBig(v *big.Int, err error) (*big.Int, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

func allowanceKey(owner, spender ld.Address) ld.Bytes32 {
	return ld.Blake2b(owner.Bytes(), spender.Bytes())
}
