// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for events
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY,
	time INTEGER NOT NULL,
	txID BLOB NOT NULL,
	caller BLOB NOT NULL,
	address BLOB NOT NULL,
	topic0 BLOB,
	topic1 BLOB,
	topic2 BLOB,
	topic3 BLOB,
	topic4 BLOB,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(address);
CREATE INDEX IF NOT EXISTS event_i1 ON event(topic0);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i3 ON event(time);
`

// create a table for token transfers
const transferTableSchema = `
CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY,
	time INTEGER NOT NULL,
	txID BLOB NOT NULL,
	caller BLOB NOT NULL,
	sender BLOB NOT NULL,
	recipient BLOB NOT NULL,
	amount BLOB
);

CREATE INDEX IF NOT EXISTS transfer_i0 ON transfer(sender);
CREATE INDEX IF NOT EXISTS transfer_i1 ON transfer(recipient);
CREATE INDEX IF NOT EXISTS transfer_i2 ON transfer(time);
`
