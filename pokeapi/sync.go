package pokeapi

import (
	"context"
	"log/slog"
	"sync"

	"github.com/typedex/dexgraph/metrics"
	"github.com/typedex/dexgraph/store"
)

// SyncResult summarizes one sync run.
type SyncResult struct {
	Fetched int
	Failed  map[int]error
}

// Sync fetches the given species ids through a bounded worker pool and
// upserts them into the store. Individual failures are collected per id
// rather than aborting the run; cancelling the context stops feeding new
// ids to the pool.
func Sync(ctx context.Context, c *Client, st *store.Store, ids []int, workers int, log *slog.Logger) SyncResult {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "sync")

	res := SyncResult{Failed: make(map[int]error)}
	jobs := make(chan int)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				p, err := c.Fetch(ctx, id)
				if err == nil {
					err = st.UpsertPokemon(ctx, p)
				}

				mu.Lock()
				if err != nil {
					res.Failed[id] = err
					metrics.SyncFetchesTotal.WithLabelValues("error").Inc()
					log.Warn("fetch failed", "id", id, "error", err)
				} else {
					res.Fetched++
					metrics.SyncFetchesTotal.WithLabelValues("ok").Inc()
					log.Debug("species stored", "id", id, "name", p.Name)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, id := range ids {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- id:
		}
	}
	close(jobs)
	wg.Wait()

	log.Info("sync finished", "fetched", res.Fetched, "failed", len(res.Failed), "requested", len(ids))
	return res
}
