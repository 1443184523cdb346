// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events and token transfers of committed calls in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/tx"
)

const (
	insertEventQuery    = "INSERT OR REPLACE INTO event(seq, time, txID, caller, address, topic0, topic1, topic2, topic3, topic4, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	insertTransferQuery = "INSERT OR REPLACE INTO transfer(seq, time, txID, caller, sender, recipient, amount) VALUES (?, ?, ?, ?, ?, ?, ?)"
)

type LogDB struct {
	path           string
	db             *sql.DB
	insertEvent    *sql.Stmt
	insertTransfer *sql.Stmt
	driverVersion  string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection serializes writers and keeps in-memory dbs alive
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, err
	}

	insertEvent, err := db.Prepare(insertEventQuery)
	if err != nil {
		return nil, err
	}
	insertTransfer, err := db.Prepare(insertTransferQuery)
	if err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:           path,
		db:             db,
		insertEvent:    insertEvent,
		insertTransfer: insertTransfer,
		driverVersion:  driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	_ = db.insertEvent.Close()
	_ = db.insertTransfer.Close()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the linked sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewWriter returns a writer to index the logs of committed calls.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db}
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)

	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ?"
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	stmt, args = appendOrderAndLimit(stmt, args, filter.Order, filter.Options)
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT * FROM transfer ORDER BY seq ASC")
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	var args []any
	stmt := "SELECT * FROM transfer WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)
	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ?"
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Caller != nil {
			args = append(args, criteria.Caller.Bytes())
			stmt += " AND caller = ?"
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ?"
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ?"
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	stmt, args = appendOrderAndLimit(stmt, args, filter.Order, filter.Options)
	return db.queryTransfers(ctx, stmt, args...)
}

func appendRange(stmt string, args []any, r *Range) (string, []any) {
	if r == nil {
		return stmt, args
	}
	if r.Unit == Time {
		args = append(args, r.From)
		stmt += " AND time >= ?"
		if r.To >= r.From {
			args = append(args, r.To)
			stmt += " AND time <= ?"
		}
		return stmt, args
	}
	// seq column packs the call sequence with the log index
	args = append(args, int64(newSequence(min(r.From, MaxTxSeq), 0)))
	stmt += " AND seq >= ?"
	if r.To >= r.From {
		args = append(args, int64(newSequence(min(r.To, MaxTxSeq), 1<<indexBits-1)))
		stmt += " AND seq <= ?"
	}
	return stmt, args
}

func appendOrderAndLimit(stmt string, args []any, order Order, opts *Options) (string, []any) {
	if order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if opts != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, opts.Offset, opts.Limit)
	}
	return stmt, args
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     int64
			time    uint64
			txID    []byte
			caller  []byte
			address []byte
			topics  [5][]byte
			data    []byte
		)
		if err := rows.Scan(
			&seq,
			&time,
			&txID,
			&caller,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			TxSeq:   sequence(seq).TxSeq(),
			Index:   sequence(seq).Index(),
			Time:    time,
			TxID:    ld.BytesToBytes32(txID),
			Caller:  ld.BytesToAddress(caller),
			Address: ld.BytesToAddress(address),
			Data:    data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := ld.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query transfers")
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			time      uint64
			txID      []byte
			caller    []byte
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(
			&seq,
			&time,
			&txID,
			&caller,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			TxSeq:     sequence(seq).TxSeq(),
			Index:     sequence(seq).Index(),
			Time:      time,
			TxID:      ld.BytesToBytes32(txID),
			Caller:    ld.BytesToAddress(caller),
			Sender:    ld.BytesToAddress(sender),
			Recipient: ld.BytesToAddress(recipient),
			Amount:    new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *ld.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// Writer buffers logs and writes them in one sql transaction.
type Writer struct {
	db        *LogDB
	events    []*Event
	transfers []*Transfer
}

// Write buffers the events and transfers of a committed call.
func (w *Writer) Write(receipt *tx.Receipt, transfers tx.Transfers) *Writer {
	for i, event := range receipt.Events {
		w.events = append(w.events, newEvent(receipt, uint32(i), event))
	}
	for i, transfer := range transfers {
		w.transfers = append(w.transfers, newTransfer(receipt, uint32(i), transfer))
	}
	return w
}

// Len returns the count of buffered logs.
func (w *Writer) Len() int {
	return len(w.events) + len(w.transfers)
}

// Commit flushes buffered logs.
func (w *Writer) Commit() (err error) {
	if w.Len() == 0 {
		return nil
	}
	dbTx, err := w.db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	eventStmt := dbTx.Stmt(w.db.insertEvent)
	for _, event := range w.events {
		if _, err = eventStmt.Exec(
			int64(newSequence(event.TxSeq, event.Index)),
			event.Time,
			event.TxID.Bytes(),
			event.Caller.Bytes(),
			event.Address.Bytes(),
			topicValue(event.Topics[0]),
			topicValue(event.Topics[1]),
			topicValue(event.Topics[2]),
			topicValue(event.Topics[3]),
			topicValue(event.Topics[4]),
			event.Data,
		); err != nil {
			return err
		}
	}

	transferStmt := dbTx.Stmt(w.db.insertTransfer)
	for _, transfer := range w.transfers {
		if _, err = transferStmt.Exec(
			int64(newSequence(transfer.TxSeq, transfer.Index)),
			transfer.Time,
			transfer.TxID.Bytes(),
			transfer.Caller.Bytes(),
			transfer.Sender.Bytes(),
			transfer.Recipient.Bytes(),
			transfer.Amount.Bytes(),
		); err != nil {
			return err
		}
	}
	if err = dbTx.Commit(); err != nil {
		return err
	}
	w.events = w.events[:0]
	w.transfers = w.transfers[:0]
	return nil
}
