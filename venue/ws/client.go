// Package ws 通过 websocket JSON 协议对接交易所，实现 venue.Client。
// 请求/响应按 id 一一对应；策略循环是单线程的，这里采用同步调用即可。
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"options-maker-go/market"
	"options-maker-go/venue"
)

const defaultCallTimeout = 5 * time.Second

// Client 是基于 websocket 的交易所客户端。
type Client struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

type request struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Dial 建立到交易所的连接；authToken 为空时不带鉴权头。
func Dial(ctx context.Context, endpoint, authToken string) (*Client, error) {
	header := http.Header{}
	if authToken != "" {
		header.Set("Authorization", "Bearer "+authToken)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("dial venue %s: %w", endpoint, err)
	}
	return &Client{conn: conn}, nil
}

// Close 关闭底层连接。
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// call 发送请求并等待同 id 响应；超时取 ctx deadline，否则用默认超时。
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal %s params: %w", method, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(defaultCallTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}

	c.nextID++
	req := request{ID: c.nextID, Method: method, Params: raw}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%s: write: %w", method, err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("%s: read: %w", method, err)
		}
		// 丢弃乱序的陈旧响应，只处理当前请求的应答。
		if resp.ID != req.ID {
			continue
		}
		if resp.Error != "" {
			return fmt.Errorf("%s: venue: %s", method, resp.Error)
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("%s: decode result: %w", method, err)
			}
		}
		return nil
	}
}

type instrumentParams struct {
	InstrumentID string `json:"instrument_id"`
}

type wireLevel struct {
	Price  float64 `json:"price"`
	Volume int     `json:"volume"`
}

type wireBook struct {
	Bids []wireLevel `json:"bids"`
	Asks []wireLevel `json:"asks"`
}

func (c *Client) PriceBook(ctx context.Context, instrumentID string) (market.Book, error) {
	var wb wireBook
	if err := c.call(ctx, "get_last_price_book", instrumentParams{instrumentID}, &wb); err != nil {
		return market.Book{}, err
	}
	book := market.Book{
		Bids: make([]market.Level, 0, len(wb.Bids)),
		Asks: make([]market.Level, 0, len(wb.Asks)),
	}
	for _, l := range wb.Bids {
		book.Bids = append(book.Bids, market.Level{Price: l.Price, Volume: l.Volume})
	}
	for _, l := range wb.Asks {
		book.Asks = append(book.Asks, market.Level{Price: l.Price, Volume: l.Volume})
	}
	return book, nil
}

func (c *Client) Positions(ctx context.Context) (map[string]int, error) {
	var positions map[string]int
	if err := c.call(ctx, "get_positions", struct{}{}, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

type wireOrder struct {
	Side   string  `json:"side"`
	Price  float64 `json:"price"`
	Volume int     `json:"volume"`
}

func (c *Client) OutstandingOrders(ctx context.Context, instrumentID string) (map[string]venue.Order, error) {
	var raw map[string]wireOrder
	if err := c.call(ctx, "get_outstanding_orders", instrumentParams{instrumentID}, &raw); err != nil {
		return nil, err
	}
	orders := make(map[string]venue.Order, len(raw))
	for id, o := range raw {
		side, err := venue.ParseSide(o.Side)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", id, err)
		}
		orders[id] = venue.Order{
			InstrumentID: instrumentID,
			OrderID:      id,
			Side:         side,
			Price:        o.Price,
			Volume:       o.Volume,
		}
	}
	return orders, nil
}

type wireTrade struct {
	InstrumentID string  `json:"instrument_id"`
	Price        float64 `json:"price"`
	Volume       int     `json:"volume"`
	Side         string  `json:"side"`
}

func (c *Client) PollNewTrades(ctx context.Context, instrumentID string) ([]venue.Trade, error) {
	var raw []wireTrade
	if err := c.call(ctx, "poll_new_trades", instrumentParams{instrumentID}, &raw); err != nil {
		return nil, err
	}
	trades := make([]venue.Trade, 0, len(raw))
	for _, t := range raw {
		side, err := venue.ParseSide(t.Side)
		if err != nil {
			return nil, fmt.Errorf("trade in %s: %w", instrumentID, err)
		}
		trades = append(trades, venue.Trade{
			InstrumentID: t.InstrumentID,
			Price:        t.Price,
			Volume:       t.Volume,
			Side:         side,
		})
	}
	return trades, nil
}

type insertParams struct {
	InstrumentID string  `json:"instrument_id"`
	Price        float64 `json:"price"`
	Volume       int     `json:"volume"`
	Side         string  `json:"side"`
	OrderType    string  `json:"order_type"`
}

func (c *Client) InsertOrder(ctx context.Context, req venue.InsertRequest) error {
	return c.call(ctx, "insert_order", insertParams{
		InstrumentID: req.InstrumentID,
		Price:        req.Price,
		Volume:       req.Volume,
		Side:         string(req.Side),
		OrderType:    string(req.Type),
	}, nil)
}

type deleteParams struct {
	InstrumentID string `json:"instrument_id"`
	OrderID      string `json:"order_id"`
}

func (c *Client) DeleteOrder(ctx context.Context, instrumentID, orderID string) error {
	return c.call(ctx, "delete_order", deleteParams{instrumentID, orderID}, nil)
}
