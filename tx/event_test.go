// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/ld"
)

func TestEventsFilter(t *testing.T) {
	a := ld.BytesToBytes32([]byte("a"))
	b := ld.BytesToBytes32([]byte("b"))

	events := Events{
		{Topics: []ld.Bytes32{a}},
		{Topics: []ld.Bytes32{b}},
		{},
		{Topics: []ld.Bytes32{a, b}},
	}
	assert.Len(t, events.Filter(a), 2)
	assert.Len(t, events.Filter(b), 1)
	assert.Len(t, events.Filter(ld.Bytes32{}), 1)
}

func TestReceiptJSON(t *testing.T) {
	caller := ld.BytesToAddress([]byte("caller"))
	r := &Receipt{
		TxID:   NewTxID(1, 100, caller),
		Seq:    1,
		Caller: caller,
		Time:   100,
		Method: "stake",
		Events: Events{{Address: ld.Address{1}, Topics: []ld.Bytes32{{2}}, Data: []byte{3}}},
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded Receipt
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r, &decoded)
	assert.NotContains(t, string(data), "revertReason")

	assert.NotEqual(t, NewTxID(1, 100, caller), NewTxID(2, 100, caller))
}
