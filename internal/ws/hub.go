package ws

import (
	"sync"
)

// Hub keeps client sets per listing.
type Hub struct {
	rooms sync.Map // listingID -> *room
}

func NewHub() *Hub { return &Hub{} }

// Broadcast is called by the Redis subscriber.
func (h *Hub) Broadcast(listingID int64, msg []byte) {
	if v, ok := h.rooms.Load(listingID); ok {
		v.(*room).broadcast(msg)
	}
}

func (h *Hub) Join(listingID int64, c *clientConn) {
	r, _ := h.rooms.LoadOrStore(listingID, newRoom())
	r.(*room).add(c)
}

func (h *Hub) Leave(listingID int64, c *clientConn) {
	if v, ok := h.rooms.Load(listingID); ok {
		v.(*room).remove(c)
	}
}

// size reports how many clients sit in the listing's room.
func (h *Hub) size(listingID int64) int {
	v, ok := h.rooms.Load(listingID)
	if !ok {
		return 0
	}
	r := v.(*room)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
