// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "math"

const indexBits = 20

// MaxTxSeq is the largest call sequence number that can be indexed.
const MaxTxSeq uint64 = math.MaxInt64 >> indexBits

// sequence orders logs by call sequence number, then by index within the call.
type sequence int64

func newSequence(txSeq uint64, index uint32) sequence {
	if index >= 1<<indexBits {
		panic("index too large")
	}
	if txSeq > MaxTxSeq {
		panic("tx sequence too large")
	}
	return (sequence(txSeq) << indexBits) | sequence(index)
}

func (s sequence) TxSeq() uint64 {
	return uint64(s >> indexBits)
}

func (s sequence) Index() uint32 {
	return uint32(s & (1<<indexBits - 1))
}
