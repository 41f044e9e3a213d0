// Package venue 定义与交易所交互的最小契约：核心只消费盘口快照、
// 持仓映射与成交回报，并下发限价/IOC 订单指令。
package venue

import (
	"context"
	"errors"
	"fmt"

	"options-maker-go/market"
)

// ErrInvalidSide 表示订单方向不在 bid/ask 之内。
var ErrInvalidSide = errors.New("invalid order side")

// Side 是订单方向的封闭枚举。
type Side string

const (
	Bid Side = "bid"
	Ask Side = "ask"
)

// ParseSide 解析外部输入的方向字符串。
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Bid, Ask:
		return Side(s), nil
	default:
		return "", fmt.Errorf("%w: %q, expecting 'bid' or 'ask'", ErrInvalidSide, s)
	}
}

// OrderType 是订单类型：limit 挂单，ioc 即时成交否则撤销。
type OrderType string

const (
	Limit OrderType = "limit"
	IOC   OrderType = "ioc"
)

// Order 是一笔在场外挂着的订单视图。
type Order struct {
	InstrumentID string
	OrderID      string
	Side         Side
	Price        float64
	Volume       int
}

// Trade 是一条成交回报，只消费一次，不会重放。
type Trade struct {
	InstrumentID string
	Price        float64
	Volume       int
	Side         Side
}

// InsertRequest 是一笔下单指令。
type InsertRequest struct {
	InstrumentID string
	Price        float64
	Volume       int
	Side         Side
	Type         OrderType
}

// Client 是交易所协作方契约。实现方负责撮合、持仓记账等；
// 核心对下单只依赖成功/失败，不依赖其他返回。
type Client interface {
	// PriceBook 返回最新盘口快照，两侧按最优价在前，可能为空。
	PriceBook(ctx context.Context, instrumentID string) (market.Book, error)
	// Positions 返回全部品种的带符号持仓（多为正，空为负）。
	Positions(ctx context.Context) (map[string]int, error)
	// OutstandingOrders 返回某品种全部未成交挂单，按订单 ID 索引。
	OutstandingOrders(ctx context.Context, instrumentID string) (map[string]Order, error)
	// PollNewTrades 取走该品种自上次调用以来的新成交；取走即消费。
	PollNewTrades(ctx context.Context, instrumentID string) ([]Trade, error)
	// InsertOrder 下单；核心只关心是否被拒。
	InsertOrder(ctx context.Context, req InsertRequest) error
	// DeleteOrder 撤销指定挂单。
	DeleteOrder(ctx context.Context, instrumentID, orderID string) error
}
