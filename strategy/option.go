package strategy

import (
	"context"
	"time"

	"options-maker-go/pricing"
	"options-maker-go/venue"
)

// Option 是一张期权合约及其展示用的最近成交价。
// 启动时从静态配置创建一次，运行期间只原地更新 LastBid/LastAsk。
type Option struct {
	ID     string
	Expiry time.Time
	Strike float64
	Kind   pricing.Kind

	// 最近成交的买/卖价，仅用于展示与诊断，不参与任何决策。
	LastBid float64
	LastAsk float64
}

// ApplyTrade 用一条成交回报更新最近成交价。
func (o *Option) ApplyTrade(t venue.Trade) {
	switch t.Side {
	case venue.Bid:
		o.LastBid = t.Price
	case venue.Ask:
		o.LastAsk = t.Price
	}
}

// SeedLastQuotes 启动时用当前盘口最优价初始化各期权的最近成交价，
// 盘口为空的合约跳过。
func SeedLastQuotes(ctx context.Context, client venue.Client, options []*Option) error {
	for _, opt := range options {
		book, err := client.PriceBook(ctx, opt.ID)
		if err != nil {
			return err
		}
		bid, okBid := book.BestBid()
		ask, okAsk := book.BestAsk()
		if !okBid || !okAsk {
			continue
		}
		opt.LastBid = bid.Price
		opt.LastAsk = ask.Price
	}
	return nil
}
