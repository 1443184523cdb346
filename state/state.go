// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ldstaking/ldstake/kv"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return "state: " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr ld.Address
	key  ld.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(k.addr.Bytes(), k.key[:]...)
}

// State manages contract storage.
// Changes are journaled in memory until staged and committed.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap
}

// New create a state object over the given store.
func New(db kv.Store) *State {
	return NewStater(db).NewState()
}

func newState(stater *Stater) *State {
	s := &State{stater: stater}
	s.sm = stackedmap.New(func(key any) (any, bool, error) {
		raw, err := stater.load(key.(storageKey))
		if err != nil {
			return nil, false, err
		}
		return raw, true, nil
	})
	return s
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr ld.Address, key ld.Bytes32) (ld.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return ld.Bytes32{}, err
	}
	if len(raw) == 0 {
		return ld.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return ld.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return ld.Blake2b(raw), nil
	}
	return ld.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr ld.Address, key, value ld.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr ld.Address, key ld.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr ld.Address, key ld.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr ld.Address, key ld.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr ld.Address, key ld.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object holding the final value of every changed slot.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k, v any) bool {
		changes[k.(storageKey)] = v.(rlp.RawValue)
		return true
	})
	return &Stage{stater: s.stater, changes: changes}
}
