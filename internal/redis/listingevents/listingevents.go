// Package listingevents publishes listing state changes on Redis pub/sub so
// every process can push them to its websocket clients.
package listingevents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"commercego/internal/services/listing"

	"github.com/redis/go-redis/v9"
)

// Channel is the pub/sub channel of one listing: "lst:<id>:events".
func Channel(listingID int64) string {
	return "lst:" + strconv.FormatInt(listingID, 10) + ":events"
}

type Publisher struct {
	rdb redis.Cmdable
}

var _ listing.EventPublisher = (*Publisher)(nil)

func NewPublisher(rdb redis.Cmdable) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context, evt listing.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, Channel(evt.ListingID), payload).Err(); err != nil {
		return fmt.Errorf("publish %s on listing %d: %w", evt.Event, evt.ListingID, err)
	}
	return nil
}
