// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/logdb"
	"github.com/ldstaking/ldstake/test/datagen"
	"github.com/ldstaking/ldstake/tx"
)

var (
	contract = ld.BytesToAddress([]byte("LdStaking"))
	stakedID = ld.BytesToBytes32([]byte("Staked"))
	claimID  = ld.BytesToBytes32([]byte("RewardClaimed"))
)

func newReceipt(seq uint64, caller ld.Address, events ...*tx.Event) *tx.Receipt {
	t := 1_700_000_000 + seq*100
	return &tx.Receipt{
		TxID:   tx.NewTxID(seq, t, caller),
		Seq:    seq,
		Caller: caller,
		Time:   t,
		Events: events,
	}
}

func newEvent(id ld.Bytes32, account ld.Address) *tx.Event {
	return &tx.Event{
		Address: contract,
		Topics:  []ld.Bytes32{id, account.Topic()},
		Data:    []byte{1, 2, 3},
	}
}

func TestEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	alice := datagen.RandAddress()
	bob := datagen.RandAddress()

	w := db.NewWriter()
	for seq := uint64(1); seq <= 10; seq++ {
		account := alice
		if seq%2 == 0 {
			account = bob
		}
		w.Write(newReceipt(seq, account, newEvent(stakedID, account), newEvent(claimID, account)), nil)
	}
	assert.Equal(t, 20, w.Len())
	require.NoError(t, w.Commit())
	assert.Equal(t, 0, w.Len())

	ctx := context.Background()
	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, uint64(1), all[0].TxSeq)
	assert.Equal(t, uint32(1), all[1].Index)
	assert.Equal(t, []byte{1, 2, 3}, all[0].Data)
	assert.Equal(t, alice, all[0].Caller)
	assert.Nil(t, all[0].Topics[2])
	assert.Equal(t, newEvent(stakedID, alice), all[0].ToEvent())

	aliceTopic := alice.Topic()
	tests := []struct {
		name   string
		filter *logdb.EventFilter
		want   int
	}{
		{"by event", &logdb.EventFilter{
			CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*ld.Bytes32{&stakedID}}},
		}, 10},
		{"by event and account", &logdb.EventFilter{
			CriteriaSet: []*logdb.EventCriteria{{Address: &contract, Topics: [5]*ld.Bytes32{&claimID, &aliceTopic}}},
		}, 5},
		{"either event", &logdb.EventFilter{
			CriteriaSet: []*logdb.EventCriteria{
				{Topics: [5]*ld.Bytes32{&stakedID, &aliceTopic}},
				{Topics: [5]*ld.Bytes32{&claimID, &aliceTopic}},
			},
		}, 10},
		{"seq range", &logdb.EventFilter{Range: &logdb.Range{Unit: logdb.Seq, From: 3, To: 4}}, 4},
		{"time range", &logdb.EventFilter{Range: &logdb.Range{Unit: logdb.Time, From: 1_700_000_000 + 900}}, 4},
		{"paged", &logdb.EventFilter{Options: &logdb.Options{Offset: 15, Limit: 10}}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
		})
	}

	desc, err := db.FilterEvents(ctx, &logdb.EventFilter{Order: logdb.DESC, Options: &logdb.Options{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, desc, 1)
	assert.Equal(t, uint64(10), desc[0].TxSeq)
	assert.Equal(t, uint32(1), desc[0].Index)
}

func TestTransfers(t *testing.T) {
	db, err := logdb.New(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer db.Close()

	alice := datagen.RandAddress()
	bob := datagen.RandAddress()
	receipt := newReceipt(1, alice)

	w := db.NewWriter()
	w.Write(receipt, tx.Transfers{
		{Sender: alice, Recipient: bob, Amount: ld.Tokens(5)},
		{Sender: bob, Recipient: alice, Amount: big.NewInt(7)},
	})
	require.NoError(t, w.Commit())

	ctx := context.Background()
	transfers, err := db.FilterTransfers(ctx, &logdb.TransferFilter{
		TxID:        &receipt.TxID,
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &alice}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, bob, transfers[0].Recipient)
	assert.Equal(t, ld.Tokens(5), transfers[0].Amount)
	assert.Equal(t, alice, transfers[0].Caller)

	transfers, err = db.FilterTransfers(ctx, &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Recipient: &alice}, {Recipient: &bob}},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, big.NewInt(7), transfers[0].Amount)
}

func TestEmptyCommit(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.NewWriter().Commit())
	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotEmpty(t, db.DriverVersion())
}
