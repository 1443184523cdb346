// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	tests := []struct {
		seq   uint64
		index uint32
	}{
		{0, 0},
		{1, 1},
		{1 << 40, 1<<indexBits - 1},
		{42, 7},
	}
	for _, tt := range tests {
		s := newSequence(tt.seq, tt.index)
		assert.Equal(t, tt.seq, s.TxSeq())
		assert.Equal(t, tt.index, s.Index())
	}
	assert.True(t, newSequence(1, 0) > newSequence(0, 1<<indexBits-1))

	assert.Panics(t, func() { newSequence(0, 1<<indexBits) })
	assert.Panics(t, func() { newSequence(1<<44, 0) })
}
