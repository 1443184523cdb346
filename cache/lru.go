// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides the read cache in front of committed storage.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU is a size bounded, typed view over golang-lru.
type LRU[K comparable, V any] struct {
	inner     *lru.Cache
	hit, miss atomic.Int64
}

// NewLRU returns an error unless maxSize > 0.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	inner, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{inner: inner}, nil
}

func (l *LRU[K, V]) Get(key K) (v V, ok bool) {
	cached, found := l.inner.Get(key)
	if !found {
		return v, false
	}
	v, _ = cached.(V)
	return v, true
}

func (l *LRU[K, V]) Add(key K, v V) {
	l.inner.Add(key, v)
}

func (l *LRU[K, V]) Contains(key K) bool {
	return l.inner.Contains(key)
}

func (l *LRU[K, V]) Len() int {
	return l.inner.Len()
}

// GetOrLoad returns the cached value, or loads and caches it.
// Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		l.hit.Add(1)
		return v, nil
	}
	l.miss.Add(1)
	v, err := load(key)
	if err != nil {
		return v, err
	}
	l.inner.Add(key, v)
	return v, nil
}

// Stats returns hit and miss counts of GetOrLoad.
func (l *LRU[K, V]) Stats() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}
