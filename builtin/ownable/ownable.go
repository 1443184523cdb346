// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ownable

import (
	"github.com/ldstaking/ldstake/abi"
	"github.com/ldstaking/ldstake/builtin/gen"
	"github.com/ldstaking/ldstake/builtin/reverts"
	"github.com/ldstaking/ldstake/builtin/solidity"
	"github.com/ldstaking/ldstake/ld"
)

var (
	ErrUnauthorizedAccount = reverts.New("OwnableUnauthorizedAccount")
	ErrInvalidOwner        = reverts.New("OwnableInvalidOwner")
)

var (
	slotOwner = solidity.Slot("owner")

	ownershipTransferred *abi.Event
)

func init() {
	tokenABI, err := abi.New(gen.MustABI("LdToken"))
	if err != nil {
		panic(err)
	}
	ownershipTransferred = tokenABI.MustEventByName("OwnershipTransferred")
}

// Ownable implements single owner access control for a contract.
type Ownable struct {
	ctx   *solidity.Context
	owner *solidity.Address
}

func New(ctx *solidity.Context) *Ownable {
	return &Ownable{
		ctx:   ctx,
		owner: solidity.NewAddress(ctx, slotOwner),
	}
}

func (o *Ownable) Owner() (ld.Address, error) {
	return o.owner.Get()
}

// Init sets the initial owner.
func (o *Ownable) Init(owner ld.Address) error {
	if owner.IsZero() {
		return ErrInvalidOwner.With(owner)
	}
	return o.transfer(owner)
}

// OnlyOwner fails unless caller is the owner.
func (o *Ownable) OnlyOwner(caller ld.Address) error {
	owner, err := o.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorizedAccount.With(caller)
	}
	return nil
}

func (o *Ownable) TransferOwnership(caller, newOwner ld.Address) error {
	if err := o.OnlyOwner(caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return ErrInvalidOwner.With(newOwner)
	}
	return o.transfer(newOwner)
}

func (o *Ownable) transfer(newOwner ld.Address) error {
	previous, err := o.owner.Get()
	if err != nil {
		return err
	}
	o.owner.Set(newOwner)
	return o.ctx.Emit(ownershipTransferred, []ld.Bytes32{previous.Topic(), newOwner.Topic()})
}
