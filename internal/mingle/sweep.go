package mingle

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/mingle/internal/data/stores"
)

// StartSweep periodically removes expired KV entries (recent-mention lists
// and other cached state). It blocks until the context is cancelled.
func StartSweep(ctx context.Context, kvStore *stores.KVStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := kvStore.Sweep(ctx); err != nil {
				log.Debug().Err(err).Msg("kv sweep failed")
			}
		}
	}
}
