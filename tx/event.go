// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ldstaking/ldstake/ld"
)

// Event represents a contract event log.
// Topics[0] is the event id, followed by indexed arguments.
type Event struct {
	// address of the contract that generates the event
	Address ld.Address `json:"address"`
	// list of topics provided by the contract.
	Topics []ld.Bytes32 `json:"topics"`
	// supplied by the contract, usually ABI-encoded
	Data hexutil.Bytes `json:"data"`
}

// Events slice of event logs.
type Events []*Event

// ID returns the event id, the zero hash if the event has no topics.
func (e *Event) ID() ld.Bytes32 {
	if len(e.Topics) == 0 {
		return ld.Bytes32{}
	}
	return e.Topics[0]
}

// Filter returns events whose id matches.
func (es Events) Filter(id ld.Bytes32) Events {
	var out Events
	for _, e := range es {
		if e.ID() == id {
			out = append(out, e)
		}
	}
	return out
}
