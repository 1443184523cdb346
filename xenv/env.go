// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/state"
	"github.com/ldstaking/ldstake/tx"
)

// TransactionContext transaction context.
type TransactionContext struct {
	ID     ld.Bytes32
	Seq    uint64
	Caller ld.Address
	Time   uint64
	Method string
}

// Environment an env to execute contract operations.
type Environment struct {
	state  *state.State
	txCtx  *TransactionContext
	events tx.Events
}

// New create a new env.
func New(state *state.State, txCtx *TransactionContext) *Environment {
	if txCtx == nil {
		txCtx = &TransactionContext{}
	}
	return &Environment{
		state: state,
		txCtx: txCtx,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) Caller() ld.Address                      { return env.txCtx.Caller }
func (env *Environment) Now() uint64                             { return env.txCtx.Time }

// Emit collects an event produced by the call.
func (env *Environment) Emit(event *tx.Event) {
	env.events = append(env.events, event)
}

// Events returns events emitted so far.
func (env *Environment) Events() tx.Events {
	return env.events
}

// Checkpoint marks a point the call can roll back to, events included.
func (env *Environment) Checkpoint() func() {
	revision := env.state.NewCheckpoint()
	n := len(env.events)
	return func() {
		env.state.RevertTo(revision)
		env.events = env.events[:n]
	}
}
