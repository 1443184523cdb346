// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/ldstaking/ldstake/ld"
)

// ABI holds information about methods and events of contract.
type ABI struct {
	methods     map[string]*ethabi.Method
	nameToEvent map[string]*Event
	events      map[ld.Bytes32]*Event
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abi := &ABI{
		methods:     make(map[string]*ethabi.Method),
		nameToEvent: make(map[string]*Event),
		events:      make(map[ld.Bytes32]*Event),
	}
	for name, m := range parsed.Methods {
		abi.methods[name] = &m
	}
	for _, ev := range parsed.Events {
		event := newEvent(&ev)
		abi.events[event.ID()] = event
		abi.nameToEvent[event.Name()] = event
	}
	return abi, nil
}

// MethodNames returns names of declared methods.
func (a *ABI) MethodNames() []string {
	names := make([]string, 0, len(a.methods))
	for name := range a.methods {
		names = append(names, name)
	}
	return names
}

// HasMethod returns whether the method is declared.
func (a *ABI) HasMethod(name string) bool {
	_, ok := a.methods[name]
	return ok
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// MustEventByName is like EventByName but panics if not found.
func (a *ABI) MustEventByName(name string) *Event {
	e, found := a.nameToEvent[name]
	if !found {
		panic("abi: event not found: " + name)
	}
	return e
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id ld.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}
