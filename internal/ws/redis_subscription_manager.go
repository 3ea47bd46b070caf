package ws

import (
	"context"
	"encoding/json"
	"sync"

	"commercego/internal/redis/listingevents"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// subscriptionManager keeps exactly one Redis subscription per
// "lst:<id>:events" channel, however many clients watch the listing.
type subscriptionManager struct {
	rdb  *redis.Client
	hub  *Hub
	mu   sync.Mutex
	subs map[int64]*subEntry
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
}

func newSubscriptionManager(rdb *redis.Client, hub *Hub) *subscriptionManager {
	return &subscriptionManager{
		rdb:  rdb,
		hub:  hub,
		subs: make(map[int64]*subEntry),
	}
}

// Subscribe opens the listing's channel on first use; later calls only bump
// the ref-counter.
func (sm *subscriptionManager) Subscribe(listingID int64) {
	sm.mu.Lock()
	if e, ok := sm.subs[listingID]; ok {
		e.refCnt++
		sm.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ps := sm.rdb.Subscribe(ctx, listingevents.Channel(listingID))

	sm.subs[listingID] = &subEntry{refCnt: 1, cancel: cancel}
	sm.mu.Unlock()

	go func() {
		defer ps.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ps.Channel():
				if !ok {
					return
				}
				wrapped, err := wrapRedisEvent(m.Payload)
				if err != nil {
					zap.L().Warn("ws.wrap_event_failed", zap.Int64("listing_id", listingID), zap.Error(err))
					wrapped = []byte(m.Payload)
				}
				sm.hub.Broadcast(listingID, wrapped)
			}
		}
	}()
}

// Unsubscribe drops the Redis subscription when the last client leaves.
func (sm *subscriptionManager) Unsubscribe(listingID int64) {
	sm.mu.Lock()
	e, ok := sm.subs[listingID]
	if !ok {
		sm.mu.Unlock()
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.subs, listingID)
	sm.mu.Unlock()

	e.cancel()
}

// wrapRedisEvent turns
//
//	{"event":"bid","listing_id":5,"price":12}
//
// into
//
//	{"event":"listings/bid","body":{"listing_id":5,"price":12}}
func wrapRedisEvent(payload string) ([]byte, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}

	evt, _ := raw["event"].(string)
	if evt == "" {
		evt = "unknown"
	}
	delete(raw, "event")

	return json.Marshal(map[string]any{
		"event": "listings/" + evt,
		"body":  raw,
	})
}
