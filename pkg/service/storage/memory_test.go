package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/service/storage"
)

func TestMemoryBlobStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Put and Get round trip", func(t *testing.T) {
		store := storage.NewMemory()

		gt.NoError(t, store.Put(ctx, "a/b/c", strings.NewReader("hello"))).Required()

		r, err := store.Get(ctx, "a/b/c")
		gt.NoError(t, err).Required()
		defer r.Close()

		data, err := io.ReadAll(r)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("hello")
	})

	t.Run("Get absent key returns ErrNotFound", func(t *testing.T) {
		store := storage.NewMemory()

		_, err := store.Get(ctx, "missing")
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotFound)).True()
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		store := storage.NewMemory()

		gt.NoError(t, store.Put(ctx, "k", strings.NewReader("v"))).Required()
		gt.NoError(t, store.Delete(ctx, "k"))
		gt.NoError(t, store.Delete(ctx, "k"))
		gt.Number(t, store.Len()).Equal(0)
	})

	t.Run("Put overwrites existing blob", func(t *testing.T) {
		store := storage.NewMemory()

		gt.NoError(t, store.Put(ctx, "k", strings.NewReader("v1"))).Required()
		gt.NoError(t, store.Put(ctx, "k", strings.NewReader("v2"))).Required()

		r, err := store.Get(ctx, "k")
		gt.NoError(t, err).Required()
		defer r.Close()

		data, err := io.ReadAll(r)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("v2")
		gt.Number(t, store.Len()).Equal(1)
	})
}
