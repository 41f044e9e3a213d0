package strategy

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"options-maker-go/market"
	"options-maker-go/metrics"
	"options-maker-go/pricing"
	"options-maker-go/risk"
	"options-maker-go/venue"
)

// QuoteParams 是单次报价更新的输入。
type QuoteParams struct {
	Theo        float64 // 理论价值，报价围绕它展开
	Credit      float64 // 半边价差，可为负（见 Credit）
	BaseVolume  int     // 基础报价数量
	PositionCap int     // 该期权的动态仓位上限
	TickSize    float64
	Stance      Stance // 上一轮对冲产生的方向压制状态
}

// FillRecorder 接收报价循环取走的成交回报以及成交时刻的理论价，
// 供事后成交质量分析使用。
type FillRecorder interface {
	RecordFill(t venue.Trade, theo float64)
}

// Quoter 管理单个期权的报价生命周期：撤掉全部旧挂单，按最新理论价
// 重算买卖价与数量后重新挂入。每个品种任何时刻至多一买一卖，
// 永远整体替换而不是改单。
type Quoter struct {
	Venue   venue.Client
	Log     *zap.Logger
	Metrics *metrics.Set

	// Rand 用于交叉报价的平局打破，注入可种子化的随机源以便测试覆盖两个分支。
	Rand *rand.Rand

	// Fills 可选；非 nil 时每条成交回报都会转发给它。
	Fills FillRecorder
}

// UpdateQuotes 对一个期权执行一轮完整的撤单-重报。
// 交易所拒单只影响对应的单边，错误聚合后返回，调用方继续处理其余品种。
func (q *Quoter) UpdateQuotes(ctx context.Context, opt *Option, p QuoteParams) error {
	// 先取走新成交，只用于更新展示价与日志。
	trades, err := q.Venue.PollNewTrades(ctx, opt.ID)
	if err != nil {
		return fmt.Errorf("poll trades %s: %w", opt.ID, err)
	}
	for _, t := range trades {
		opt.ApplyTrade(t)
		if q.Fills != nil {
			q.Fills.RecordFill(t, p.Theo)
		}
		q.Log.Info("trade_report",
			zap.String("instrument", t.InstrumentID),
			zap.Float64("price", t.Price),
			zap.Int("volume", t.Volume),
			zap.String("side", string(t.Side)))
	}

	// 撤掉全部旧挂单，记录被撤的买卖量，折算进新报价数量，
	// 避免纯粹因为撤单重挂而缩小总挂单量。
	orders, err := q.Venue.OutstandingOrders(ctx, opt.ID)
	if err != nil {
		return fmt.Errorf("outstanding orders %s: %w", opt.ID, err)
	}
	oldBidVol, oldAskVol := 0, 0
	for id, o := range orders {
		switch o.Side {
		case venue.Bid:
			oldBidVol = o.Volume
		case venue.Ask:
			oldAskVol = o.Volume
		}
		if err := q.Venue.DeleteOrder(ctx, opt.ID, id); err != nil {
			return fmt.Errorf("delete order %s/%s: %w", opt.ID, id, err)
		}
		q.Metrics.OrdersCancelled.Inc()
	}

	bidPrice := market.RoundDownToTick(p.Theo-p.Credit, p.TickSize)
	askPrice := market.RoundUpToTick(p.Theo+p.Credit, p.TickSize)
	// 负 credit 会产生相等甚至交叉的买卖价，随机把一侧让开一个 tick
	// 直到不再交叉。随机偏斜是有意为之：两侧轮流让价避免系统性偏向某一边。
	for bidPrice >= askPrice {
		if q.Rand.Intn(2) == 0 {
			bidPrice -= p.TickSize
		} else {
			askPrice += p.TickSize
		}
	}

	positions, err := q.Venue.Positions(ctx)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	position := positions[opt.ID]

	maxBuy := p.PositionCap - position
	maxSell := p.PositionCap + position
	bidVolume := min(p.BaseVolume+oldBidVol, maxBuy)
	askVolume := min(p.BaseVolume+oldAskVol, maxSell)

	// call 与 put 的 delta 符号相反，所以压制的报价方向也相反。
	var suppressBid, suppressAsk bool
	switch opt.Kind {
	case pricing.Call:
		suppressAsk = p.Stance.ForceIncrease
		suppressBid = p.Stance.ForceDecrease
	case pricing.Put:
		suppressBid = p.Stance.ForceIncrease
		suppressAsk = p.Stance.ForceDecrease
	}

	var bidErr, askErr error
	if !suppressBid {
		bidErr = q.insertQuote(ctx, opt.ID, venue.Bid, bidPrice, bidVolume, position, p)
	}
	if !suppressAsk {
		askErr = q.insertQuote(ctx, opt.ID, venue.Ask, askPrice, askVolume, position, p)
	}
	return errors.Join(bidErr, askErr)
}

// insertQuote 在一侧挂入限价单；数量非正、价格为负、或下单会突破仓位上限时不动作。
// 限额预检以当前持仓加本次挂单量对比上限，不考虑挂单后的潜在成交。
func (q *Quoter) insertQuote(ctx context.Context, optionID string, side venue.Side, price float64, volume, position int, p QuoteParams) error {
	if volume <= 0 || price < 0 {
		return nil
	}
	if err := risk.CheckOrder(position, volume, side, p.PositionCap); err != nil {
		if !errors.Is(err, risk.ErrPositionLimit) {
			return err
		}
		q.Metrics.RiskRejects.Inc()
		q.Log.Debug("quote_suppressed_by_limit",
			zap.String("instrument", optionID),
			zap.String("side", string(side)),
			zap.Int("position", position),
			zap.Int("cap", p.PositionCap))
		return nil
	}
	err := q.Venue.InsertOrder(ctx, venue.InsertRequest{
		InstrumentID: optionID,
		Price:        price,
		Volume:       volume,
		Side:         side,
		Type:         venue.Limit,
	})
	if err != nil {
		q.Metrics.VenueErrors.Inc()
		return fmt.Errorf("insert %s %s: %w", side, optionID, err)
	}
	q.Metrics.QuotesInserted.WithLabelValues(string(side)).Inc()
	q.Log.Info("quote_inserted",
		zap.String("instrument", optionID),
		zap.String("side", string(side)),
		zap.Float64("price", price),
		zap.Int("volume", volume))
	return nil
}
