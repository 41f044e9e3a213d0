// Package posttrade 对做市成交做事后质量分析：以成交时刻的理论价为基准,
// 统计每笔成交相对理论价的让利或捕获。
package posttrade

import (
	"sync"

	"options-maker-go/venue"
)

// fill 保存一笔成交及其基准理论价。
type fill struct {
	trade venue.Trade
	theo  float64
}

// Stats 是分析器累计的成交质量统计。
type Stats struct {
	TotalFills    int
	BuyVolume     int     // 我方买入（对手打到我们的 bid）
	SellVolume    int     // 我方卖出
	AvgCapture    float64 // 每股平均价差捕获，按理论价计
	CaptureVolume float64 // 总捕获（每股捕获 * 数量）
}

// Analyzer 累积成交记录并计算价差捕获。实现 strategy.FillRecorder。
type Analyzer struct {
	mu    sync.Mutex
	fills []fill
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// RecordFill 记录一笔成交与成交时刻的理论价。
func (a *Analyzer) RecordFill(t venue.Trade, theo float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fills = append(a.fills, fill{trade: t, theo: theo})
}

// Stats 计算当前累计统计。捕获定义：买成交为 理论价-成交价，
// 卖成交为 成交价-理论价；正值表示按理论价衡量的有利成交。
func (a *Analyzer) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{TotalFills: len(a.fills)}
	if len(a.fills) == 0 {
		return s
	}

	totalVolume := 0
	for _, f := range a.fills {
		perShare := 0.0
		switch f.trade.Side {
		case venue.Bid:
			s.BuyVolume += f.trade.Volume
			perShare = f.theo - f.trade.Price
		case venue.Ask:
			s.SellVolume += f.trade.Volume
			perShare = f.trade.Price - f.theo
		}
		s.CaptureVolume += perShare * float64(f.trade.Volume)
		totalVolume += f.trade.Volume
	}
	if totalVolume > 0 {
		s.AvgCapture = s.CaptureVolume / float64(totalVolume)
	}
	return s
}

// Reset 清空已累计的成交，返回清空前的统计。
func (a *Analyzer) Reset() Stats {
	s := a.Stats()
	a.mu.Lock()
	a.fills = nil
	a.mu.Unlock()
	return s
}
