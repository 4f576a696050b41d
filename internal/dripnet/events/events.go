// Package events carries the faucet's outbound notifications to whoever
// listens: the websocket publisher, the frontend, a log subscriber.
package events

import (
	"math/big"
	"sync"
	"time"

	"github.com/dripnet/internal/dripnet/logger"
	"github.com/dripnet/internal/dripnet/types"
)

const (
	TypeTokensClaimed    = "TokensClaimed"
	TypeFaucetPaused     = "FaucetPaused"
	TypeFaucetAddressSet = "FaucetAddressSet"
	TypeAdminTransferred = "AdminTransferred"
)

type TokensClaimed struct {
	Account   types.Address `json:"account"`
	Amount    *big.Int      `json:"amount"`
	Timestamp time.Time     `json:"timestamp"`
}

type FaucetPaused struct {
	Paused bool `json:"paused"`
}

type FaucetAddressSet struct {
	Old types.Address `json:"old"`
	New types.Address `json:"new"`
}

type AdminTransferred struct {
	Old types.Address `json:"old"`
	New types.Address `json:"new"`
}

// Event pairs a type tag with its payload.
type Event struct {
	Type string      `json:"event"`
	Data interface{} `json:"data"`
}

// Bus fans events out to subscriber channels. Publish never blocks: a
// subscriber that stops draining loses events rather than stalling claims.
type Bus struct {
	mu   sync.RWMutex
	subs []chan Event
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new listener and returns its channel.
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 64)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers the event to every subscriber.
func (b *Bus) Publish(eventType string, data interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ev := Event{Type: eventType, Data: data}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			logger.Named("events").Warnw("Dropping event for slow subscriber", "event", eventType)
		}
	}
}
