// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/kv"
)

func TestLevelDB(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("k1"), []byte("v1")))
	v, err := db.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	has, err := db.Has([]byte("k1"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("k1")))
	has, err = db.Has([]byte("k1"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestLevelDBBulkAndSnapshot(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("a"), []byte("0")))
	snapshot := db.Snapshot()
	defer snapshot.Release()

	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	require.NoError(t, bulk.Put([]byte("b"), []byte("2")))
	require.NoError(t, bulk.Delete([]byte("c")))
	assert.Equal(t, 3, bulk.Len())

	// nothing visible before write
	_, err = db.Get([]byte("b"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, bulk.Write())

	v, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	v, err = snapshot.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("0"), v, "snapshot should not see later writes")
}

func TestLevelDBBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := kv.Bucket("x").NewStore(db)
	for _, k := range []string{"1", "2", "3"} {
		require.NoError(t, store.Put([]byte(k), []byte("v"+k)))
	}
	require.NoError(t, db.Put([]byte("y1"), []byte("other")))

	iter := store.Iterate(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2", "3"}, keys)

	v, err := db.Get([]byte("x2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)
}

func TestLevelDBReopen(t *testing.T) {
	path := t.TempDir()

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
