// Package strategy 实现期权做市核心：报价价差估计、报价生命周期管理、
// delta 对冲以及对冲方向滞回状态。
package strategy

import (
	"math"

	"options-maker-go/market"
)

// intrinsicMargin 是内在价值边界上让出的固定余量。
const intrinsicMargin = 0.1

// IntrinsicBound 基于理论价与行权价之差计算价差上界，
// 防止对深度实值期权报出不切实际的宽边。
func IntrinsicBound(theo, strike float64) float64 {
	switch {
	case theo > strike:
		return theo - strike - intrinsicMargin
	case theo < strike:
		return strike - theo - intrinsicMargin
	default:
		return 0
	}
}

// MarketBound 基于盘口第二档计算价差上界，防止报价比市场实际深度更宽。
// 任一侧不足两档时返回 0。
func MarketBound(theo float64, book market.Book) float64 {
	if len(book.Bids) < 2 || len(book.Asks) < 2 {
		return 0
	}
	diffBid := math.Abs(theo - book.Bids[1].Price)
	diffAsk := math.Abs(book.Asks[1].Price - theo)
	return math.Min(diffBid, diffAsk)
}

// Credit 取内在边界与市场边界中较紧的一个作为最终半边价差。
// 结果可以为负：这会先产生交叉的买卖价，再由报价阶段的平局打破规则解决，
// 属于设计内行为而非缺陷。
func Credit(theo, strike float64, book market.Book) float64 {
	return math.Min(IntrinsicBound(theo, strike), MarketBound(theo, book))
}
