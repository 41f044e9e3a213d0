package market

import (
	"math"
	"time"
)

// VolatilityTracker 基于中间价序列估计已实现波动率。
// 仅作诊断输出，与定价使用的固定波动率假设相互对照。
type VolatilityTracker struct {
	window   int
	interval time.Duration // 采样间隔，用于年化
	prices   []float64
}

// NewVolatilityTracker 创建滚动窗口为 window 个采样、采样间隔为
// interval 的估计器。
func NewVolatilityTracker(window int, interval time.Duration) *VolatilityTracker {
	if window < 2 {
		window = 2
	}
	return &VolatilityTracker{
		window:   window,
		interval: interval,
		prices:   make([]float64, 0, window),
	}
}

// Observe 记录一个中间价采样，窗口满后丢弃最旧的。
func (v *VolatilityTracker) Observe(mid float64) {
	if mid <= 0 {
		return
	}
	v.prices = append(v.prices, mid)
	if len(v.prices) > v.window {
		v.prices = v.prices[1:]
	}
}

// Ready 表示样本是否足够产生估计。
func (v *VolatilityTracker) Ready() bool {
	return len(v.prices) >= 2
}

// Realized 返回年化的已实现波动率：对数收益率的标准差乘以
// 每年采样次数的平方根。样本不足时返回 0。
func (v *VolatilityTracker) Realized() float64 {
	if len(v.prices) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(v.prices)-1)
	for i := 1; i < len(v.prices); i++ {
		returns = append(returns, math.Log(v.prices[i]/v.prices[i-1]))
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	samplesPerYear := float64(365 * 24 * time.Hour / v.interval)
	return math.Sqrt(variance) * math.Sqrt(samplesPerYear)
}
