package strategy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"options-maker-go/market"
	"options-maker-go/metrics"
	"options-maker-go/pricing"
	"options-maker-go/risk"
	"options-maker-go/venue"
)

// Hedger 聚合全部期权的带符号 delta 敞口，并在净敞口超出死区时
// 用标的股票的 IOC 单把组合拉回中性附近。
// 死区与仓位限额随每次调用传入：可热更新的参数由调用方持锁读取，
// Hedger 本身在循环启动后不再被修改。
type Hedger struct {
	Venue   venue.Client
	Log     *zap.Logger
	Metrics *metrics.Set

	InterestRate float64
	Volatility   float64

	// Now 可注入，便于测试固定估值时刻；为 nil 时取系统时间。
	Now func() time.Time
}

func (h *Hedger) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// HedgeDelta 执行一次对冲决策，返回对冲前的净敞口（总 delta + 标的持仓），
// 供滞回状态推进使用。deadband 为净敞口死区（边界不含），limit 为标的
// 的仓位限额。标的盘口任一侧为空时返回 market.ErrEmptyBook，
// 本轮跳过对冲，不视为致命。
func (h *Hedger) HedgeDelta(ctx context.Context, stockID string, options []*Option, deadband float64, limit int) (float64, error) {
	positions, err := h.Venue.Positions(ctx)
	if err != nil {
		return 0, fmt.Errorf("positions: %w", err)
	}
	book, err := h.Venue.PriceBook(ctx, stockID)
	if err != nil {
		return 0, fmt.Errorf("price book %s: %w", stockID, err)
	}
	bestBid, okBid := book.BestBid()
	bestAsk, okAsk := book.BestAsk()
	if !okBid || !okAsk {
		return 0, market.ErrEmptyBook
	}

	// call 用对手买价、put 用对手卖价估 delta：对平仓成交价取保守假设。
	now := h.now()
	totalDelta := 0.0
	for _, opt := range options {
		touch := bestBid.Price
		if opt.Kind == pricing.Put {
			touch = bestAsk.Price
		}
		val, err := pricing.Evaluate(opt.Kind, opt.Strike, opt.Expiry, now, touch, h.InterestRate, h.Volatility)
		if err != nil {
			return 0, fmt.Errorf("delta %s: %w", opt.ID, err)
		}
		totalDelta += val.Delta * float64(positions[opt.ID])
	}

	stockPosition := positions[stockID]
	net := totalDelta + float64(stockPosition)
	h.Metrics.NetDelta.Set(net)
	h.Metrics.StockPosition.Set(float64(stockPosition))

	volume := int(math.Round(totalDelta)) + stockPosition
	var side venue.Side
	var hedgePrice float64
	if volume >= 0 {
		// 卖出对冲会把标的持仓推向 -limit，超出的部分削掉。
		after := stockPosition - volume
		if after < -limit {
			volume -= -limit - after
		}
		side = venue.Ask
		hedgePrice = bestBid.Price
	} else {
		volume = -volume
		after := stockPosition + volume
		if after > limit {
			volume -= after - limit
		}
		side = venue.Bid
		hedgePrice = bestAsk.Price
	}

	if net <= deadband && net >= -deadband {
		h.Log.Debug("hedge_skipped_deadband", zap.Float64("net_delta", net))
		return net, nil
	}

	if err := risk.CheckOrder(stockPosition, volume, side, limit); err != nil {
		if !errors.Is(err, risk.ErrPositionLimit) {
			return net, err
		}
		h.Log.Info("hedge_skipped_limit",
			zap.Float64("net_delta", net),
			zap.Int("volume", volume),
			zap.Int("stock_position", stockPosition))
		return net, nil
	}
	if volume == 0 {
		h.Log.Debug("hedge_skipped_zero_volume", zap.Float64("net_delta", net))
		return net, nil
	}

	err = h.Venue.InsertOrder(ctx, venue.InsertRequest{
		InstrumentID: stockID,
		Price:        hedgePrice,
		Volume:       volume,
		Side:         side,
		Type:         venue.IOC,
	})
	if err != nil {
		h.Metrics.VenueErrors.Inc()
		return net, fmt.Errorf("hedge %s %s: %w", side, stockID, err)
	}
	h.Metrics.HedgeOrders.Inc()
	h.Log.Info("hedge_inserted",
		zap.String("instrument", stockID),
		zap.String("side", string(side)),
		zap.Float64("price", hedgePrice),
		zap.Int("volume", volume),
		zap.Float64("net_delta", net))
	return net, nil
}
