// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	TxSeq   uint64
	Index   uint32
	Time    uint64
	TxID    ld.Bytes32
	Caller  ld.Address
	Address ld.Address // always a contract address
	Topics  [5]*ld.Bytes32
	Data    []byte
}

// ToEvent converts back to the log as emitted.
func (e *Event) ToEvent() *tx.Event {
	ev := &tx.Event{
		Address: e.Address,
		Data:    e.Data,
	}
	for _, topic := range e.Topics {
		if topic != nil {
			ev.Topics = append(ev.Topics, *topic)
		}
	}
	return ev
}

// newEvent converts tx.Event to Event.
func newEvent(receipt *tx.Receipt, index uint32, txEvent *tx.Event) *Event {
	ev := &Event{
		TxSeq:   receipt.Seq,
		Index:   index,
		Time:    receipt.Time,
		TxID:    receipt.TxID,
		Caller:  receipt.Caller,
		Address: txEvent.Address,
		Data:    txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	TxSeq     uint64
	Index     uint32
	Time      uint64
	TxID      ld.Bytes32
	Caller    ld.Address
	Sender    ld.Address
	Recipient ld.Address
	Amount    *big.Int
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(receipt *tx.Receipt, index uint32, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		TxSeq:     receipt.Seq,
		Index:     index,
		Time:      receipt.Time,
		TxID:      receipt.TxID,
		Caller:    receipt.Caller,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    transfer.Amount,
	}
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is inclusive on both ends. To below From means unbounded.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *ld.Address // always a contract address
	Topics  [5]*ld.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	Caller    *ld.Address // who made the call
	Sender    *ld.Address // who transferred tokens
	Recipient *ld.Address // who received tokens
}

type TransferFilter struct {
	TxID        *ld.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
