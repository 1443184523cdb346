// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ldstaking/ldstake/abi"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/state"
	"github.com/ldstaking/ldstake/tx"
)

type EmitFunc func(event *tx.Event)

// Context binds storage helpers and event emission to a contract address.
type Context struct {
	address ld.Address
	state   *state.State
	emitter EmitFunc
}

func NewContext(address ld.Address, state *state.State, emitter EmitFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		emitter: emitter,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() ld.Address {
	return c.address
}

// Emit logs an event from this contract. It is a no-op for read only contexts.
func (c *Context) Emit(event *abi.Event, indexed []ld.Bytes32, args ...any) error {
	if c.emitter == nil {
		return nil
	}
	log, err := event.NewLog(c.address, indexed, args...)
	if err != nil {
		return err
	}
	c.emitter(log)
	return nil
}

// Slot derives a storage position from a variable name.
func Slot(name string) ld.Bytes32 {
	return ld.BytesToBytes32([]byte(name))
}
