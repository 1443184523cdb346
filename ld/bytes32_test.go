// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ld

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshalUnmarshall(t *testing.T) {
	originalHex := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var unmarshaledValue Bytes32
	err := json.Unmarshal([]byte(originalHex), &unmarshaledValue)
	assert.NoError(t, err)
	assert.Equal(t, BytesToBytes32([]byte("master")), unmarshaledValue)

	marshalVal, err := json.Marshal(unmarshaledValue)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalVal))

	marshalPtr, err := json.Marshal(&unmarshaledValue)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalPtr))
}

func TestParseBytes32(t *testing.T) {
	_, err := ParseBytes32("0x1234")
	assert.Error(t, err)

	_, err = ParseBytes32("zz" + string(make([]byte, 64)))
	assert.Error(t, err)

	b, err := ParseBytes32("00000000000000000000000000000000000000000000000000006d6173746572")
	assert.NoError(t, err)
	assert.False(t, b.IsZero())
}
