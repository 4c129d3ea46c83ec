package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

var testKey = AwaitKey{Platform: domain.PlatformTelegram, UserID: 42}

func TestAwaitKey_String(t *testing.T) {
	assert.Equal(t, "tg:42", testKey.String())
	assert.Equal(t, "vk:7", AwaitKey{Platform: domain.PlatformVK, UserID: 7}.String())
}

func TestMemoryAwaitStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAwaitStore(time.Hour)

	got, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, domain.AwaitNone, got)

	require.NoError(t, store.Set(ctx, testKey, domain.AwaitOrderText))
	got, _ = store.Get(ctx, testKey)
	assert.Equal(t, domain.AwaitOrderText, got)

	require.NoError(t, store.Set(ctx, testKey, domain.AwaitGeo))
	got, _ = store.Get(ctx, testKey)
	assert.Equal(t, domain.AwaitGeo, got)

	require.NoError(t, store.Clear(ctx, testKey))
	got, _ = store.Get(ctx, testKey)
	assert.Equal(t, domain.AwaitNone, got)
}

func TestMemoryAwaitStore_SetNoneClears(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAwaitStore(0)

	require.NoError(t, store.Set(ctx, testKey, domain.AwaitGeo))
	require.NoError(t, store.Set(ctx, testKey, domain.AwaitNone))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryAwaitStore_RejectsUnknown(t *testing.T) {
	err := NewMemoryAwaitStore(0).Set(context.Background(), testKey, domain.Await("payment"))
	assert.Error(t, err)
}

func TestMemoryAwaitStore_ExpiryAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryAwaitStore(time.Hour)
	store.now = func() time.Time { return now }

	other := AwaitKey{Platform: domain.PlatformTelegram, UserID: 43}
	require.NoError(t, store.Set(ctx, testKey, domain.AwaitOrderText))

	now = now.Add(50 * time.Minute)
	require.NoError(t, store.Set(ctx, other, domain.AwaitGeo))

	now = now.Add(20 * time.Minute)
	got, _ := store.Get(ctx, testKey)
	assert.Equal(t, domain.AwaitNone, got)
	got, _ = store.Get(ctx, other)
	assert.Equal(t, domain.AwaitGeo, got)

	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryAwaitStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAwaitStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			key := AwaitKey{Platform: domain.PlatformTelegram, UserID: id}
			_ = store.Set(ctx, key, domain.AwaitOrderText)
			_, _ = store.Get(ctx, key)
			_, _ = store.Sweep(ctx)
			_ = store.Clear(ctx, key)
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 0, store.Len())
}
