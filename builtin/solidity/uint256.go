// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math/big"

	"github.com/ldstaking/ldstake/ld"
)

var (
	errUint256Underflow = errors.New("uint256 underflow")
	errUint256Overflow  = errors.New("uint256 overflow")
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     ld.Bytes32
}

func NewUint256(context *Context, slot ld.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errUint256Underflow
	}
	if value.BitLen() > 256 {
		return errUint256Overflow
	}
	u.context.state.SetStorage(u.context.address, u.pos, ld.BytesToBytes32(value.Bytes()))
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Sub(storage, value))
}
