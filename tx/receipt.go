// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/binary"

	"github.com/ldstaking/ldstake/ld"
)

// Receipt represents the results of an executed call.
type Receipt struct {
	// id of the call, derived from its sequence number
	TxID ld.Bytes32 `json:"txID"`
	// sequence number assigned by the runtime
	Seq uint64 `json:"seq"`
	// account the call was made on behalf of
	Caller ld.Address `json:"caller"`
	// time the call was executed at
	Time uint64 `json:"time"`
	// name of the operation
	Method string `json:"method"`
	// reverted calls carry the revert reason and no events
	Reverted     bool   `json:"reverted"`
	RevertReason string `json:"revertReason,omitempty"`
	// events produced
	Events Events `json:"events"`
}

// NewTxID derives the id of the seq-th call executed at time t.
func NewTxID(seq uint64, t uint64, caller ld.Address) ld.Bytes32 {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], seq)
	binary.BigEndian.PutUint64(b[8:], t)
	return ld.Blake2b(b[:], caller.Bytes())
}
