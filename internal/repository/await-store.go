package repository

import (
	"context"
	"fmt"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

// AwaitKey identifies a user across platforms.
type AwaitKey struct {
	Platform domain.Platform
	UserID   int64
}

func (k AwaitKey) String() string {
	return fmt.Sprintf("%s:%d", k.Platform, k.UserID)
}

// AwaitStore keeps the transient await value per user. Get on a missing or
// expired key returns domain.AwaitNone and no error.
type AwaitStore interface {
	Get(ctx context.Context, key AwaitKey) (domain.Await, error)
	Set(ctx context.Context, key AwaitKey, await domain.Await) error
	Clear(ctx context.Context, key AwaitKey) error
}

// Sweeper is implemented by stores that need expired entries removed periodically.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

func checkAwait(await domain.Await) error {
	if !await.Valid() {
		return fmt.Errorf("unknown await value %q", await)
	}
	return nil
}
