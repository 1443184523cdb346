// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ld

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestBlake2b(t *testing.T) {
	data := []byte("hello world")
	assert.Equal(t, Blake2b(data), Blake2b(data[:5], data[5:]))
	assert.Equal(t, Blake2b([]byte("a"), []byte("b")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a"), []byte("b")), Blake2b([]byte("b"), []byte("a")))
}

func TestKeccak256(t *testing.T) {
	data := []byte("Staked(address,uint256)")
	assert.Equal(t, crypto.Keccak256(data), Keccak256(data).Bytes())
	assert.Equal(t, crypto.Keccak256(data), Keccak256(data[:6], data[6:]).Bytes())
}
