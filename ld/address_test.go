// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ld

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"with prefix", "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"without prefix", "7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"upper prefix", "0X7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"bad prefix", "1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"short", "0x7567d83b", true},
		{"not hex", "0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("owner"))

	data, err := json.Marshal(struct {
		Owner Address `json:"owner"`
	}{addr})
	require.NoError(t, err)
	assert.Equal(t, `{"owner":"0x0000000000000000000000000000006f776e6572"}`, string(data))

	var decoded struct {
		Owner Address `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded.Owner)

	assert.Error(t, json.Unmarshal([]byte(`{"owner":"0x01"}`), &decoded))
}

func TestAddressTopic(t *testing.T) {
	addr := BytesToAddress([]byte{1, 2, 3})
	topic := addr.Topic()

	assert.Equal(t, addr.Bytes(), topic[12:])
	assert.True(t, Address{}.IsZero())
	assert.False(t, addr.IsZero())
}
