package engine

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ordercore/models"
)

// EventType names an ambient enrichment event. These are best-effort,
// asynchronous, and non-authoritative — nothing in the matching pipeline
// waits on or reacts to them. The authoritative trade stream is
// MatchingEngine's own sequential TradeListener contract, delivered
// synchronously outside the symbol exclusion; EventBus is a separate,
// looser fan-out for things like UI order-status widgets.
type EventType string

const (
	EventTypeOrderPlaced     EventType = "OrderPlaced"
	EventTypeOrderCancelled  EventType = "OrderCancelled"
	EventTypeOrderModified   EventType = "OrderModified"
	EventTypeOrderbookChange EventType = "OrderbookChange"
)

// Event wraps one ambient occurrence for delivery to EventBus
// subscribers.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// OrderEvent describes a single order's lifecycle transition.
type OrderEvent struct {
	OrderID           models.OrderId
	ClientID          string
	Symbol            models.Symbol
	Side              models.Side
	Type              models.OrderType
	Price             decimal.Decimal
	Quantity          decimal.Decimal
	FilledQuantity    decimal.Decimal
	RemainingQuantity decimal.Decimal
	Timestamp         time.Time
}

// OrderbookChangeEvent describes a change to a price level's resting
// size, for consumers that want book depth without walking OrderBookSide
// themselves.
type OrderbookChangeEvent struct {
	Symbol    models.Symbol
	Side      models.Side
	Action    string // "add", "remove", "update"
	Price     decimal.Decimal
	NewVolume decimal.Decimal
	Timestamp time.Time
}

// EventListener receives one Event. Invoked asynchronously: state may
// have moved on by the time the goroutine runs.
type EventListener func(event Event)

// EventBus is a simple pub/sub fan-out keyed by EventType, kept separate
// from MatchingEngine's trade-listener contract so that ambient,
// best-effort observers (a debug UI, an admin dashboard) can't slow down
// or reorder the authoritative trade stream.
type EventBus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventListener),
	}
}

// Subscribe registers listener for eventType.
func (eb *EventBus) Subscribe(eventType EventType, listener EventListener) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.listeners[eventType] = append(eb.listeners[eventType], listener)
}

// Publish fans event out to every subscriber of its type, each in its
// own goroutine, and returns without waiting for them.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	listeners := eb.listeners[event.Type]
	eb.mu.RUnlock()

	for _, listener := range listeners {
		go listener(event)
	}
}

// Unsubscribe removes all listeners for eventType.
func (eb *EventBus) Unsubscribe(eventType EventType) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	delete(eb.listeners, eventType)
}

// GetListenerCount reports how many listeners are registered for
// eventType.
func (eb *EventBus) GetListenerCount(eventType EventType) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.listeners[eventType])
}
