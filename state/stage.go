// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ldstaking/ldstake/kv"
)

// Stage abstracts pending changes of a state.
type Stage struct {
	stater  *Stater
	changes map[storageKey]rlp.RawValue
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes in one atomic batch. The extra putters are
// applied to the same batch with unprefixed keys.
func (s *Stage) Commit(extras ...func(kv.Putter) error) error {
	bulk := s.stater.db.Bulk()
	putter := storageBucket.NewPutter(bulk)

	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = putter.Delete(k.bytes())
		} else {
			err = putter.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	for _, extra := range extras {
		if err := extra(bulk); err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}

	for k, v := range s.changes {
		s.stater.cache.Add(k, v)
	}
	return nil
}
