// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/logdb"
)

type LogMeta struct {
	TxID   ld.Bytes32 `json:"txID"`
	TxSeq  uint64     `json:"txSeq"`
	Time   uint64     `json:"time"`
	Caller ld.Address `json:"caller"`
	Index  uint32     `json:"index"`
}

// FilteredEvent only comes from one contract
type FilteredEvent struct {
	*utils.Event
	Meta LogMeta `json:"meta"`
}

func convertEvent(event *logdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Event: utils.ConvertEvent(event.ToEvent()),
		Meta: LogMeta{
			TxID:   event.TxID,
			TxSeq:  event.TxSeq,
			Time:   event.Time,
			Caller: event.Caller,
			Index:  event.Index,
		},
	}
}

type TopicSet struct {
	Topic0 *ld.Bytes32 `json:"topic0"`
	Topic1 *ld.Bytes32 `json:"topic1"`
	Topic2 *ld.Bytes32 `json:"topic2"`
	Topic3 *ld.Bytes32 `json:"topic3"`
	Topic4 *ld.Bytes32 `json:"topic4"`
}

// EventCriteria matches logs by raw topics, or by event name and the account
// in the first indexed argument.
type EventCriteria struct {
	Address *ld.Address `json:"address"`
	Event   string      `json:"event,omitempty"`
	Account *ld.Address `json:"account,omitempty"`
	TopicSet
}

func (c *EventCriteria) convert() (*logdb.EventCriteria, error) {
	topics := [5]*ld.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4}
	if c.Event != "" {
		id, err := eventID(c.Address, c.Event)
		if err != nil {
			return nil, err
		}
		topics[0] = &id
	}
	if c.Account != nil {
		topic := c.Account.Topic()
		topics[1] = &topic
	}
	return &logdb.EventCriteria{
		Address: c.Address,
		Topics:  topics,
	}, nil
}

// eventID resolves an event name against the contract at addr, or against all
// contracts when addr is nil.
func eventID(addr *ld.Address, name string) (ld.Bytes32, error) {
	for _, c := range builtin.Contracts {
		if addr != nil && *addr != c.Address {
			continue
		}
		if ev, ok := c.ABI.EventByName(name); ok {
			return ev.ID(), nil
		}
	}
	return ld.Bytes32{}, fmt.Errorf("unknown event %q", name)
}

type Options struct {
	Offset uint64  `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
}

func (o *Options) Validate(limit uint64) error {
	if o == nil {
		return nil
	}
	if o.Limit != nil && *o.Limit > limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit))
	}
	if o.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64))
	}
	return nil
}

type Range struct {
	Unit logdb.RangeType `json:"unit,omitempty"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != logdb.Seq && r.Unit != logdb.Time {
		return fmt.Errorf("range.unit must be either 'seq' or 'time', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return errors.New("range.to must be greater than or equal to range.from")
	}
	return nil
}

func (r *Range) convert() *logdb.Range {
	if r == nil || (r.From == nil && r.To == nil) {
		return nil
	}
	rng := &logdb.Range{Unit: r.Unit}
	if rng.Unit == "" {
		rng.Unit = logdb.Seq
	}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = *r.To
	} else if rng.From == 0 {
		// open ended from zero
		rng.To = math.MaxInt64
	}
	return rng
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet,omitempty"`
	Range       *Range           `json:"range,omitempty"`
	Options     *Options         `json:"options,omitempty"`
	Order       logdb.Order      `json:"order,omitempty"`
}

type FilteredTransfer struct {
	Sender    ld.Address `json:"sender"`
	Recipient ld.Address `json:"recipient"`
	Amount    string     `json:"amount"`
	Meta      LogMeta    `json:"meta"`
}

func convertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    utils.BigString(transfer.Amount),
		Meta: LogMeta{
			TxID:   transfer.TxID,
			TxSeq:  transfer.TxSeq,
			Time:   transfer.Time,
			Caller: transfer.Caller,
			Index:  transfer.Index,
		},
	}
}

type TransferCriteria struct {
	Caller    *ld.Address `json:"caller,omitempty"`
	Sender    *ld.Address `json:"sender,omitempty"`
	Recipient *ld.Address `json:"recipient,omitempty"`
}

type TransferFilter struct {
	TxID        *ld.Bytes32         `json:"txID,omitempty"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet,omitempty"`
	Range       *Range              `json:"range,omitempty"`
	Options     *Options            `json:"options,omitempty"`
	Order       logdb.Order         `json:"order,omitempty"`
}
