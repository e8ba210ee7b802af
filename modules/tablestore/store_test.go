package tablestore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite exercises the Store contract against one backend.
func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("insert then get", func(t *testing.T) {
		s := open(t)
		v, err := s.Insert(ctx, "recipes", "Pancakes", []byte(`{"name":"Pancakes"}`))
		require.NoError(t, err)
		require.NotEmpty(t, v)

		e, err := s.Get(ctx, "recipes", "Pancakes")
		require.NoError(t, err)
		assert.Equal(t, "Pancakes", e.Key)
		assert.Equal(t, `{"name":"Pancakes"}`, string(e.Value))
		assert.Equal(t, v, e.Version)
	})

	t.Run("get missing", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(ctx, "recipes", "nothing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("insert duplicate", func(t *testing.T) {
		s := open(t)
		_, err := s.Insert(ctx, "menus", "Week 1", []byte(`1`))
		require.NoError(t, err)
		_, err = s.Insert(ctx, "menus", "Week 1", []byte(`2`))
		assert.ErrorIs(t, err, ErrConflict)

		e, err := s.Get(ctx, "menus", "Week 1")
		require.NoError(t, err)
		assert.Equal(t, "1", string(e.Value))
	})

	t.Run("collections are separate", func(t *testing.T) {
		s := open(t)
		_, err := s.Insert(ctx, "recipes", "Same", []byte(`r`))
		require.NoError(t, err)
		_, err = s.Insert(ctx, "menus", "Same", []byte(`m`))
		require.NoError(t, err)

		e, err := s.Get(ctx, "menus", "Same")
		require.NoError(t, err)
		assert.Equal(t, "m", string(e.Value))
	})

	t.Run("put with current version", func(t *testing.T) {
		s := open(t)
		v1, err := s.Insert(ctx, "recipes", "Soup", []byte(`a`))
		require.NoError(t, err)

		v2, err := s.Put(ctx, "recipes", "Soup", []byte(`b`), v1)
		require.NoError(t, err)
		assert.NotEqual(t, v1, v2)

		e, err := s.Get(ctx, "recipes", "Soup")
		require.NoError(t, err)
		assert.Equal(t, "b", string(e.Value))
		assert.Equal(t, v2, e.Version)
	})

	t.Run("put with stale version", func(t *testing.T) {
		s := open(t)
		v1, err := s.Insert(ctx, "recipes", "Soup", []byte(`a`))
		require.NoError(t, err)
		_, err = s.Put(ctx, "recipes", "Soup", []byte(`b`), v1)
		require.NoError(t, err)

		_, err = s.Put(ctx, "recipes", "Soup", []byte(`c`), v1)
		assert.ErrorIs(t, err, ErrVersionMismatch)

		e, err := s.Get(ctx, "recipes", "Soup")
		require.NoError(t, err)
		assert.Equal(t, "b", string(e.Value))
	})

	t.Run("put after delete", func(t *testing.T) {
		s := open(t)
		v1, err := s.Insert(ctx, "recipes", "Gone", []byte(`a`))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "recipes", "Gone"))

		_, err = s.Put(ctx, "recipes", "Gone", []byte(`b`), v1)
		assert.ErrorIs(t, err, ErrVersionMismatch)
	})

	t.Run("put with version from before delete and reinsert", func(t *testing.T) {
		s := open(t)
		old, err := s.Insert(ctx, "recipes", "Pasta", []byte(`old`))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "recipes", "Pasta"))
		fresh, err := s.Insert(ctx, "recipes", "Pasta", []byte(`new`))
		require.NoError(t, err)
		assert.NotEqual(t, old, fresh)

		_, err = s.Put(ctx, "recipes", "Pasta", []byte(`stale`), old)
		assert.ErrorIs(t, err, ErrVersionMismatch)

		e, err := s.Get(ctx, "recipes", "Pasta")
		require.NoError(t, err)
		assert.Equal(t, "new", string(e.Value))
		assert.Equal(t, fresh, e.Version)
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		_, err := s.Insert(ctx, "shoppinglists", "Friday", []byte(`x`))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "shoppinglists", "Friday"))
		_, err = s.Get(ctx, "shoppinglists", "Friday")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, s.Delete(ctx, "shoppinglists", "Friday"), ErrNotFound)
	})

	t.Run("query by prefix", func(t *testing.T) {
		s := open(t)
		for _, name := range []string{"Pasta carbonara", "Pancakes", "Pasta bolognese", "Bread"} {
			_, err := s.Insert(ctx, "recipes", name, []byte(`{}`))
			require.NoError(t, err)
		}

		got, err := s.Query(ctx, "recipes", HasPrefix("Pasta"))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Pasta bolognese", got[0].Key)
		assert.Equal(t, "Pasta carbonara", got[1].Key)

		all, err := s.Query(ctx, "recipes", MatchAll())
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("query empty collection", func(t *testing.T) {
		s := open(t)
		got, err := s.Query(ctx, "menus", MatchAll())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("keys with awkward characters", func(t *testing.T) {
		s := open(t)
		name := "Mormors kåldolmar / v2.0 *"
		_, err := s.Insert(ctx, "recipes", name, []byte(`k`))
		require.NoError(t, err)

		e, err := s.Get(ctx, "recipes", name)
		require.NoError(t, err)
		assert.Equal(t, name, e.Key)

		got, err := s.Query(ctx, "recipes", HasPrefix("Mormors"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, name, got[0].Key)
	})

	t.Run("concurrent puts on one version", func(t *testing.T) {
		s := open(t)
		v1, err := s.Insert(ctx, "recipes", "Race", []byte(`0`))
		require.NoError(t, err)

		const writers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Put(ctx, "recipes", "Race", []byte(`1`), v1)
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
					return
				}
				if !errors.Is(err, ErrVersionMismatch) {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, succeeded)
	})

	t.Run("ping", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Insert(ctx, "recipes", "a", []byte(`abc`))
	require.NoError(t, err)

	e, err := s.Get(ctx, "recipes", "a")
	require.NoError(t, err)
	e.Value[0] = 'X'

	again, err := s.Get(ctx, "recipes", "a")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again.Value))
}

func TestKeyEncoding(t *testing.T) {
	for _, key := range []string{"plain", "with space", "slash/and.dot", "åäö", "*>"} {
		enc := encodeKey(key)
		assert.NotContains(t, enc, " ")
		assert.NotContains(t, enc, "/")
		assert.NotContains(t, enc, "*")

		dec, err := decodeKey(enc)
		require.NoError(t, err)
		assert.Equal(t, key, dec)
	}

	_, err := decodeKey("!!")
	assert.Error(t, err)
}
