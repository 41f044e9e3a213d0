// Package venuetest 提供内存版交易所实现，用于策略测试与离线仿真。
package venuetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"options-maker-go/market"
	"options-maker-go/venue"
)

// ErrRejected 模拟交易所拒单。
var ErrRejected = errors.New("venuetest: order rejected")

// Venue 是可脚本化的内存交易所：盘口、持仓、挂单和成交回报
// 都可以由测试直接设置或注入。
type Venue struct {
	mu        sync.Mutex
	books     map[string]market.Book
	positions map[string]int
	resting   map[string]map[string]venue.Order // instrument -> orderID -> order
	pending   map[string][]venue.Trade          // 待 PollNewTrades 取走的成交
	nextID    int

	// RejectInserts 为 true 时所有下单返回 ErrRejected，用于测试可恢复错误路径。
	RejectInserts bool

	inserts []venue.InsertRequest
	deletes int
}

func New() *Venue {
	return &Venue{
		books:     make(map[string]market.Book),
		positions: make(map[string]int),
		resting:   make(map[string]map[string]venue.Order),
		pending:   make(map[string][]venue.Trade),
	}
}

// SetBook 设置某品种的盘口快照。
func (v *Venue) SetBook(instrumentID string, book market.Book) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.books[instrumentID] = book
}

// SetPosition 设置某品种的带符号持仓。
func (v *Venue) SetPosition(instrumentID string, pos int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.positions[instrumentID] = pos
}

// AddTrade 注入一条待取走的成交回报。
func (v *Venue) AddTrade(t venue.Trade) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending[t.InstrumentID] = append(v.pending[t.InstrumentID], t)
}

// Inserts 返回按顺序记录的全部下单请求（拷贝）。
func (v *Venue) Inserts() []venue.InsertRequest {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]venue.InsertRequest, len(v.inserts))
	copy(out, v.inserts)
	return out
}

// Deletes 返回累计撤单次数。
func (v *Venue) Deletes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deletes
}

func (v *Venue) PriceBook(_ context.Context, instrumentID string) (market.Book, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.books[instrumentID], nil
}

func (v *Venue) Positions(_ context.Context) (map[string]int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]int, len(v.positions))
	for k, p := range v.positions {
		out[k] = p
	}
	return out, nil
}

func (v *Venue) OutstandingOrders(_ context.Context, instrumentID string) (map[string]venue.Order, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]venue.Order, len(v.resting[instrumentID]))
	for id, o := range v.resting[instrumentID] {
		out[id] = o
	}
	return out, nil
}

func (v *Venue) PollNewTrades(_ context.Context, instrumentID string) ([]venue.Trade, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	trades := v.pending[instrumentID]
	delete(v.pending, instrumentID)
	return trades, nil
}

// InsertOrder 记录下单；limit 挂入 resting，ioc 全量按委托价成交并更新持仓。
func (v *Venue) InsertOrder(_ context.Context, req venue.InsertRequest) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.RejectInserts {
		return ErrRejected
	}
	if req.Side != venue.Bid && req.Side != venue.Ask {
		return venue.ErrInvalidSide
	}
	v.inserts = append(v.inserts, req)

	switch req.Type {
	case venue.IOC:
		delta := req.Volume
		if req.Side == venue.Ask {
			delta = -delta
		}
		v.positions[req.InstrumentID] += delta
		v.pending[req.InstrumentID] = append(v.pending[req.InstrumentID], venue.Trade{
			InstrumentID: req.InstrumentID,
			Price:        req.Price,
			Volume:       req.Volume,
			Side:         req.Side,
		})
	default:
		v.nextID++
		id := fmt.Sprintf("ord-%d", v.nextID)
		if v.resting[req.InstrumentID] == nil {
			v.resting[req.InstrumentID] = make(map[string]venue.Order)
		}
		v.resting[req.InstrumentID][id] = venue.Order{
			InstrumentID: req.InstrumentID,
			OrderID:      id,
			Side:         req.Side,
			Price:        req.Price,
			Volume:       req.Volume,
		}
	}
	return nil
}

func (v *Venue) DeleteOrder(_ context.Context, instrumentID, orderID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	orders, ok := v.resting[instrumentID]
	if !ok {
		return fmt.Errorf("venuetest: unknown order %s/%s", instrumentID, orderID)
	}
	if _, ok := orders[orderID]; !ok {
		return fmt.Errorf("venuetest: unknown order %s/%s", instrumentID, orderID)
	}
	delete(orders, orderID)
	v.deletes++
	return nil
}
