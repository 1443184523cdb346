// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ldstaking/ldstake/cache"
	"github.com/ldstaking/ldstake/kv"
	"github.com/ldstaking/ldstake/ld"
)

const (
	storageBucket  = kv.Bucket("s")
	storageCacheSz = 16384
)

// Stater is the state creator.
// It owns a read cache of committed storage shared by all states it creates.
type Stater struct {
	db      kv.Store
	storage kv.Store
	cache   *cache.LRU[storageKey, rlp.RawValue]
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	c, _ := cache.NewLRU[storageKey, rlp.RawValue](storageCacheSz)
	return &Stater{
		db:      db,
		storage: storageBucket.NewStore(db),
		cache:   c,
	}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return newState(s)
}

// DB returns the underlying store.
func (s *Stater) DB() kv.Store {
	return s.db
}

func (s *Stater) load(key storageKey) (rlp.RawValue, error) {
	return s.cache.GetOrLoad(key, func(key storageKey) (rlp.RawValue, error) {
		data, err := s.storage.Get(key.bytes())
		if err != nil {
			if s.storage.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return data, nil
	})
}

// ForEachStorage iterates committed storage slots of addr in key order.
func (s *Stater) ForEachStorage(addr ld.Address, cb func(key ld.Bytes32, raw rlp.RawValue) bool) error {
	prefix := addr.Bytes()
	iter := s.storage.Iterate(kv.Range{
		Start: prefix,
		Limit: append(bytes.Clone(prefix), bytes.Repeat([]byte{0xff}, 33)...),
	})
	defer iter.Release()

	for iter.Next() {
		k := iter.Key()
		if len(k) != ld.AddressLength+32 {
			continue
		}
		if !cb(ld.BytesToBytes32(k[ld.AddressLength:]), bytes.Clone(iter.Value())) {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return &Error{err}
	}
	return nil
}
