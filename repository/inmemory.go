package repository

import (
	"sync"
	"time"

	"github.com/google/btree"

	"ordercore/models"
)

const inMemoryBtreeDegree = 32

// tradeItem orders trades by (timestamp, tradeId) so range scans for
// trades_between walk in chronological order with a stable tiebreak.
type tradeItem struct {
	trade models.Trade
}

func (t tradeItem) Less(than btree.Item) bool {
	other := than.(tradeItem)
	if !t.trade.Timestamp.Equal(other.trade.Timestamp) {
		return t.trade.Timestamp.Before(other.trade.Timestamp)
	}
	return t.trade.TradeId < other.trade.TradeId
}

// InMemoryTradeRepository is the default TradeRepository: an in-process,
// per-symbol btree of trades. Grounded on the original core's
// InternalTradeRepository (an unordered_map<Symbol, vector<Trade>> behind
// a mutex); the btree here buys ordered range queries for trades_between
// instead of a post-hoc sort.
type InMemoryTradeRepository struct {
	mu        sync.Mutex
	bySymbol  map[models.Symbol]*btree.BTree
}

// NewInMemoryTradeRepository returns an empty repository.
func NewInMemoryTradeRepository() *InMemoryTradeRepository {
	return &InMemoryTradeRepository{
		bySymbol: make(map[models.Symbol]*btree.BTree),
	}
}

func (r *InMemoryTradeRepository) AddTrades(trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range trades {
		tree, ok := r.bySymbol[t.Symbol]
		if !ok {
			tree = btree.New(inMemoryBtreeDegree)
			r.bySymbol[t.Symbol] = tree
		}
		tree.ReplaceOrInsert(tradeItem{trade: t})
	}
	return nil
}

func (r *InMemoryTradeRepository) TradesBetween(symbol models.Symbol, start, end time.Time) ([]models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tree, ok := r.bySymbol[symbol]
	if !ok {
		return nil, nil
	}

	var out []models.Trade
	tree.Ascend(func(item btree.Item) bool {
		t := item.(tradeItem).trade
		if t.Timestamp.Before(start) {
			return true
		}
		if t.Timestamp.After(end) {
			return false
		}
		out = append(out, t)
		return true
	})
	return out, nil
}

func (r *InMemoryTradeRepository) TradesAll(symbol models.Symbol) ([]models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tree, ok := r.bySymbol[symbol]
	if !ok {
		return nil, nil
	}

	out := make([]models.Trade, 0, tree.Len())
	tree.Ascend(func(item btree.Item) bool {
		out = append(out, item.(tradeItem).trade)
		return true
	})
	return out, nil
}
