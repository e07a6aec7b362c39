package engine

import (
	"sync"
	"time"

	"ordercore/clock"
	"ordercore/idgen"
	"ordercore/logging"
	"ordercore/metrics"
	"ordercore/models"
	"ordercore/repository"
)

// TradeListener receives a batch of trades produced by one engine
// operation, in registration order, sequentially, after the producing
// symbol's exclusion has been released.
type TradeListener func(trades []models.Trade)

// MatchingEngine is the multi-symbol coordinator: it owns the symbol to
// book map, the global order registry, identifier allocation, and the
// concurrency discipline described by the lock hierarchy below. Books and
// price levels hold only borrowed references to orders; the registry is
// the sole owner.
//
// Lock hierarchy, acquired in this order and released in reverse:
//  1. symbol exclusion (one mutex per symbol)
//  2. booksMu (books map)
//  3. registryMu (registry map)
//  4. listenersMu (listener slice)
//  5. symbolMutexesMu (symbol-mutex map)
//
// No operation ever holds a later lock while acquiring an earlier one.
type MatchingEngine struct {
	cfg   Config
	clock clock.Clock
	repo  repository.TradeRepository

	orderIDGen *idgen.Generator
	tradeIDGen *idgen.Generator

	booksMu sync.RWMutex
	books   map[models.Symbol]*OrderBook

	registryMu sync.RWMutex
	registry   map[models.OrderId]*models.Order

	symbolMutexesMu sync.Mutex
	symbolMutexes   map[models.Symbol]*sync.Mutex

	listenersMu sync.Mutex
	listeners   []TradeListener

	debugMu  sync.Mutex
	debugLog []models.Trade
}

// New builds a MatchingEngine. repo may be nil, in which case trade
// batches are only delivered to listeners.
func New(cfg Config, clk clock.Clock, repo repository.TradeRepository) *MatchingEngine {
	return &MatchingEngine{
		cfg:           cfg,
		clock:         clk,
		repo:          repo,
		orderIDGen:    idgen.New(),
		tradeIDGen:    idgen.New(),
		books:         make(map[models.Symbol]*OrderBook),
		registry:      make(map[models.OrderId]*models.Order),
		symbolMutexes: make(map[models.Symbol]*sync.Mutex),
	}
}

// symbolLock returns the exclusion primitive for symbol, creating it on
// first use. symbolMutexesMu is never held across any other lock.
func (e *MatchingEngine) symbolLock(symbol models.Symbol) *sync.Mutex {
	e.symbolMutexesMu.Lock()
	defer e.symbolMutexesMu.Unlock()
	m, ok := e.symbolMutexes[symbol]
	if !ok {
		m = &sync.Mutex{}
		e.symbolMutexes[symbol] = m
	}
	return m
}

// GetOrCreateBook returns symbol's book, creating an empty one on first
// touch.
func (e *MatchingEngine) GetOrCreateBook(symbol models.Symbol) *OrderBook {
	e.booksMu.RLock()
	book, ok := e.books[symbol]
	e.booksMu.RUnlock()
	if ok {
		return book
	}

	e.booksMu.Lock()
	defer e.booksMu.Unlock()
	if book, ok = e.books[symbol]; ok {
		return book
	}
	book = NewOrderBook(symbol)
	e.books[symbol] = book
	return book
}

// GetSymbolByOrder looks up the symbol of a still-registered order.
func (e *MatchingEngine) GetSymbolByOrder(id models.OrderId) (models.Symbol, bool) {
	e.registryMu.RLock()
	defer e.registryMu.RUnlock()
	o, ok := e.registry[id]
	if !ok {
		return "", false
	}
	return o.Symbol, true
}

// RegisterTradeListener appends cb to the listener list. Callbacks run
// sequentially, in registration order, outside any symbol exclusion.
func (e *MatchingEngine) RegisterTradeListener(cb TradeListener) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	e.listeners = append(e.listeners, cb)
}

func (e *MatchingEngine) listenerSnapshot() []TradeListener {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	out := make([]TradeListener, len(e.listeners))
	copy(out, e.listeners)
	return out
}

func (e *MatchingEngine) registryPut(o *models.Order) {
	e.registryMu.Lock()
	e.registry[o.OrderId] = o
	e.registryMu.Unlock()
}

func (e *MatchingEngine) registryDrop(id models.OrderId) {
	e.registryMu.Lock()
	delete(e.registry, id)
	e.registryMu.Unlock()
}

func (e *MatchingEngine) registryGet(id models.OrderId) (*models.Order, bool) {
	e.registryMu.RLock()
	defer e.registryMu.RUnlock()
	o, ok := e.registry[id]
	return o, ok
}

// validateNewOrder checks a caller's request before an order id or
// timestamp is ever allocated.
func validateNewOrder(req models.NewOrderRequest) models.RejectReason {
	if req.Quantity.Sign() <= 0 {
		return models.RejectInvalidQuantity
	}
	if req.Type == models.Limit && req.Price.Sign() <= 0 {
		return models.RejectInvalidPrice
	}
	if req.Type != models.Limit && req.Type != models.Market {
		return models.RejectUnsupportedOrderType
	}
	return models.RejectNone
}

// validateModifyOrder checks a proposed change against a snapshot of
// the current order.
func validateModifyOrder(order *models.Order, req models.ModifyOrderRequest) models.RejectReason {
	if order.TIF != models.GTC {
		return models.RejectUnsupportedTIF
	}
	if req.HasNewQuantity && req.NewQuantity.LessThan(order.Filled) {
		return models.RejectInvalidQuantity
	}
	if req.HasNewPrice && order.Type == models.Market {
		return models.RejectUnsupportedOrderType
	}
	if req.HasNewPrice && req.NewPrice.Sign() <= 0 {
		return models.RejectInvalidPrice
	}
	return models.RejectNone
}

// NewOrder submits a new order. Returns models.InvalidOrderID if req
// fails validation.
func (e *MatchingEngine) NewOrder(req models.NewOrderRequest) models.OrderId {
	start := time.Now()
	correlationID := logging.NewCorrelationID()

	if reason := validateNewOrder(req); reason != models.RejectNone {
		logging.LogOrderRejected(correlationID, 0, string(req.Symbol), string(reason))
		metrics.RecordOrderRejected(string(req.Symbol), string(reason))
		return models.InvalidOrderID
	}
	metrics.RecordOrderReceived(string(req.Symbol), string(req.Side), string(req.Type))

	symMu := e.symbolLock(req.Symbol)
	symMu.Lock()

	id := models.OrderId(e.orderIDGen.Next())
	ts := e.clock.Now()
	tif := req.TIF
	if req.Type == models.Market && tif == models.GTC {
		// Market orders never rest, so a market GTC is normalized to IOC.
		tif = models.IOC
	}
	order := models.NewOrder(id, req.Symbol, req.Side, req.Type, tif, req.Price, req.Quantity, ts)
	order.ClientID = req.ClientID

	e.registryPut(order)

	price, _ := req.Price.Float64()
	qty, _ := req.Quantity.Float64()
	logging.LogOrderReceived(correlationID, uint64(id), req.ClientID, string(req.Symbol), string(req.Side), string(req.Type), price, qty)

	book := e.GetOrCreateBook(req.Symbol)
	trades := book.SubmitOrder(order)

	if order.TIF != models.GTC && order.Remaining.Sign() > 0 {
		e.registryDrop(id)
	}
	e.dropFilledOrders(trades)
	e.stampTrades(trades)
	e.recordDebugTrades(trades)
	e.updateBookMetrics(book)

	symMu.Unlock()

	filled, _ := order.Filled.Float64()
	remaining, _ := order.Remaining.Float64()
	logging.LogOrderMatched(correlationID, uint64(id), string(req.Symbol), string(req.Side), filled, remaining, len(trades))
	metrics.RecordOrderLatency(string(req.Symbol), string(req.Type), time.Since(start).Seconds())

	e.deliverTrades(trades)
	return id
}

// CancelOrder cancels a live order.
func (e *MatchingEngine) CancelOrder(id models.OrderId) bool {
	correlationID := logging.NewCorrelationID()

	symbol, ok := e.GetSymbolByOrder(id)
	if !ok {
		return false
	}

	symMu := e.symbolLock(symbol)
	symMu.Lock()
	defer symMu.Unlock()

	order, ok := e.registryGet(id)
	if !ok {
		return false
	}

	book := e.GetOrCreateBook(symbol)
	if book.CancelOrder(order) {
		e.registryDrop(id)
		logging.LogOrderCancelled(correlationID, uint64(id), string(symbol))
		e.updateBookMetrics(book)
		return true
	}

	if order.Remaining.Sign() == 0 {
		// Already fully filled: housekeeping cleanup, but the cancel
		// itself still reports failure.
		e.registryDrop(id)
	}
	return false
}

// ModifyOrder amends a live, resting GTC order, rematching it against
// the book when the change crosses the opposite side.
func (e *MatchingEngine) ModifyOrder(id models.OrderId, req models.ModifyOrderRequest) bool {
	correlationID := logging.NewCorrelationID()

	order, ok := e.registryGet(id)
	if !ok {
		return false
	}
	symbol := order.Symbol
	snapshot := order.Clone()

	if reason := validateModifyOrder(snapshot, req); reason != models.RejectNone {
		logging.LogOrderRejected(correlationID, uint64(id), string(symbol), string(reason))
		return false
	}

	symMu := e.symbolLock(symbol)
	symMu.Lock()

	live, ok := e.registryGet(id)
	if !ok {
		symMu.Unlock()
		return false
	}
	if reason := validateModifyOrder(live, req); reason != models.RejectNone {
		symMu.Unlock()
		logging.LogOrderRejected(correlationID, uint64(id), string(symbol), string(reason))
		return false
	}

	book := e.GetOrCreateBook(symbol)
	willRematch := e.willRematch(book, live, req)

	if !willRematch {
		result := book.ModifyOrder(live, req)
		if result {
			e.updateBookMetrics(book)
		}
		symMu.Unlock()
		if result {
			logging.LogOrderModified(correlationID, uint64(id), string(symbol), false)
		}
		return result
	}

	result, trades := e.rematchModify(book, live, req)
	if result {
		e.updateBookMetrics(book)
	}
	symMu.Unlock()

	if result {
		logging.LogOrderModified(correlationID, uint64(id), string(symbol), true)
	}
	e.deliverTrades(trades)
	return result
}

// willRematch decides whether a modify needs to walk the matching loop
// again rather than just relocating within its own side.
func (e *MatchingEngine) willRematch(book *OrderBook, order *models.Order, req models.ModifyOrderRequest) bool {
	if order.Type == models.Market {
		return true
	}
	if !req.HasNewPrice {
		return false
	}

	opposite := book.oppositeSideOf(order.Side)
	best := opposite.bestLevel()
	if best == nil {
		return false
	}

	if order.Side == Buy {
		return req.NewPrice.GreaterThanOrEqual(best.Price())
	}
	return req.NewPrice.LessThanOrEqual(best.Price())
}

// rematchModify runs under the caller's held symbol exclusion and
// returns trades for the caller to deliver after releasing it.
func (e *MatchingEngine) rematchModify(book *OrderBook, order *models.Order, req models.ModifyOrderRequest) (bool, []models.Trade) {
	hypothetical := order.Clone()
	if req.HasNewPrice {
		hypothetical.Price = req.NewPrice
	}
	if req.HasNewQuantity {
		hypothetical.Qty = req.NewQuantity
	}
	hypothetical.Remaining = hypothetical.Qty.Sub(hypothetical.Filled)

	if hypothetical.TIF == models.FOK {
		opposite := book.oppositeSideOf(hypothetical.Side)
		if opposite.availableQuantityForOrder(hypothetical).LessThan(hypothetical.Remaining) {
			return false, nil
		}
	}

	if !book.CancelOrder(order) {
		if order.Remaining.Sign() == 0 {
			e.registryDrop(order.OrderId)
		}
		return false, nil
	}

	if req.HasNewPrice {
		order.Price = req.NewPrice
	}
	if req.HasNewQuantity {
		order.Qty = req.NewQuantity
	}
	order.Remaining = order.Qty.Sub(order.Filled)
	order.Timestamp = e.clock.Now()

	trades := book.SubmitOrder(order)

	if order.TIF != models.GTC && order.Remaining.Sign() > 0 {
		e.registryDrop(order.OrderId)
	}
	e.dropFilledOrders(trades)
	e.stampTrades(trades)
	e.recordDebugTrades(trades)

	return true, trades
}

// dropFilledOrders removes any order referenced by trades that is now
// fully filled.
func (e *MatchingEngine) dropFilledOrders(trades []models.Trade) {
	if len(trades) == 0 {
		return
	}
	for _, t := range trades {
		if o, ok := e.registryGet(t.BuyOrderId); ok && o.IsFilled() {
			e.registryDrop(t.BuyOrderId)
		}
		if o, ok := e.registryGet(t.SellOrderId); ok && o.IsFilled() {
			e.registryDrop(t.SellOrderId)
		}
	}
}

// stampTrades assigns fresh trade ids and a shared post-match clock
// reading before the symbol exclusion is released.
func (e *MatchingEngine) stampTrades(trades []models.Trade) {
	if len(trades) == 0 {
		return
	}
	now := e.clock.Now()
	for i := range trades {
		trades[i].TradeId = models.TradeId(e.tradeIDGen.Next())
		trades[i].Timestamp = now
	}
}

func (e *MatchingEngine) recordDebugTrades(trades []models.Trade) {
	if !e.cfg.DebugMode || len(trades) == 0 {
		return
	}
	e.debugMu.Lock()
	defer e.debugMu.Unlock()
	e.debugLog = append(e.debugLog, trades...)
	if over := len(e.debugLog) - e.cfg.TradeDebugHistory; over > 0 {
		e.debugLog = e.debugLog[over:]
	}
}

// updateBookMetrics refreshes the depth and best-price gauges for one
// symbol's book. Called under the caller's held symbol exclusion, right
// after a mutation, so the snapshot it reads is consistent.
func (e *MatchingEngine) updateBookMetrics(book *OrderBook) {
	metrics.UpdateOrderbookDepth(string(book.Symbol), string(Buy), float64(book.bids.len()))
	metrics.UpdateOrderbookDepth(string(book.Symbol), string(Sell), float64(book.asks.len()))

	var bestBid, bestAsk float64
	if lvl := book.bids.bestLevel(); lvl != nil {
		bestBid, _ = lvl.Price().Float64()
	}
	if lvl := book.asks.bestLevel(); lvl != nil {
		bestAsk, _ = lvl.Price().Float64()
	}
	metrics.UpdateBestPrices(string(book.Symbol), bestBid, bestAsk)
}

// deliverTrades sends the batch to the repository, then to every
// listener in registration order, outside any symbol exclusion.
func (e *MatchingEngine) deliverTrades(trades []models.Trade) {
	if len(trades) == 0 {
		return
	}

	correlationID := logging.NewCorrelationID()
	var totalQty float64
	for _, t := range trades {
		q, _ := t.Quantity.Float64()
		p, _ := t.Price.Float64()
		totalQty += q
		logging.LogTradeExecuted(correlationID, uint64(t.TradeId), uint64(t.BuyOrderId), uint64(t.SellOrderId), string(t.Symbol), p, q)
	}
	metrics.RecordTrades(string(trades[0].Symbol), len(trades), totalQty)

	if e.repo != nil {
		if err := e.repo.AddTrades(trades); err != nil {
			logging.LogRepositoryError("add_trades", err)
		} else {
			logging.LogRepositorySuccess("add_trades", len(trades))
		}
	}

	for i, listener := range e.listenerSnapshot() {
		e.invokeListener(i, listener, trades)
	}
}

// invokeListener calls a single listener, recovering a panic so one
// misbehaving registrant cannot corrupt engine state or abort delivery
// to the remaining listeners.
func (e *MatchingEngine) invokeListener(index int, listener TradeListener, trades []models.Trade) {
	defer func() {
		if r := recover(); r != nil {
			logging.LogTradeListenerPanic(index, r)
		}
	}()
	listener(trades)
}

// DebugTrail returns a snapshot of the recent-match debug ring buffer.
// Empty unless Config.DebugMode is set.
func (e *MatchingEngine) DebugTrail() []models.Trade {
	e.debugMu.Lock()
	defer e.debugMu.Unlock()
	out := make([]models.Trade, len(e.debugLog))
	copy(out, e.debugLog)
	return out
}
