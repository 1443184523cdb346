// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"errors"
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/tx"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id                 ld.Bytes32
	event              *ethabi.Event
	argsWithoutIndexed ethabi.Arguments
}

func newEvent(event *ethabi.Event) *Event {
	return &Event{
		ld.Bytes32(event.ID),
		event,
		event.Inputs.NonIndexed(),
	}
}

// ID returns event id.
func (e *Event) ID() ld.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Signature returns the canonical signature, e.g. Staked(address,uint256).
func (e *Event) Signature() string {
	return e.event.Sig
}

// Encode encodes non-indexed args to data.
func (e *Event) Encode(args ...any) ([]byte, error) {
	return e.argsWithoutIndexed.Pack(args...)
}

// NewLog builds an event log emitted by addr. Indexed args are given as topics.
func (e *Event) NewLog(addr ld.Address, indexed []ld.Bytes32, args ...any) (*tx.Event, error) {
	data, err := e.Encode(args...)
	if err != nil {
		return nil, err
	}
	topics := make([]ld.Bytes32, 0, len(indexed)+1)
	topics = append(topics, e.id)
	topics = append(topics, indexed...)
	return &tx.Event{
		Address: addr,
		Topics:  topics,
		Data:    data,
	}, nil
}

// Decode decodes all arguments of the log into a map keyed by argument name.
// Indexed address, uint and bool arguments are recovered from topics.
func (e *Event) Decode(log *tx.Event) (map[string]any, error) {
	if log.ID() != e.id {
		return nil, errors.New("event id mismatch")
	}
	out := make(map[string]any)
	if err := e.argsWithoutIndexed.UnpackIntoMap(out, log.Data); err != nil {
		return nil, err
	}
	for k, v := range out {
		if addr, ok := v.(common.Address); ok {
			out[k] = ld.Address(addr)
		}
	}

	topics := log.Topics[1:]
	i := 0
	for _, arg := range e.event.Inputs {
		if !arg.Indexed {
			continue
		}
		if i >= len(topics) {
			return nil, errors.New("insufficient topics")
		}
		topic := topics[i]
		i++
		switch arg.Type.T {
		case ethabi.AddressTy:
			out[arg.Name] = ld.BytesToAddress(topic[:])
		case ethabi.UintTy:
			out[arg.Name] = new(big.Int).SetBytes(topic[:])
		case ethabi.BoolTy:
			out[arg.Name] = topic[31] == 1
		default:
			out[arg.Name] = topic
		}
	}
	return out, nil
}
