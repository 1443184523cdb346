// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ldstaking/ldstake/ld"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded at blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos ld.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos ld.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) ld.Bytes32 {
	return ld.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value at key, or the zero value (a fresh instance for pointer types) if absent.
func (m *Mapping[K, V]) Get(key K) (V, error) {
	return decodeValue[V](m.context, m.position(key))
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return encodeValue(m.context, m.position(key), value)
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

// Value is a single rlp encoded storage variable.
type Value[V any] struct {
	context *Context
	pos     ld.Bytes32
}

func NewValue[V any](context *Context, pos ld.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

func (v *Value[V]) Get() (V, error) {
	return decodeValue[V](v.context, v.pos)
}

func (v *Value[V]) Set(value V) error {
	return encodeValue(v.context, v.pos, value)
}

func decodeValue[V any](ctx *Context, pos ld.Bytes32) (value V, err error) {
	err = ctx.state.DecodeStorage(ctx.address, pos, func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, value2ptr(&value))
	})
	return
}

// value2ptr avoids double pointers when V is already a pointer type.
func value2ptr[V any](v *V) any {
	if reflect.ValueOf(*v).Kind() == reflect.Ptr {
		return *v
	}
	return v
}

func encodeValue[V any](ctx *Context, pos ld.Bytes32, value V) error {
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
