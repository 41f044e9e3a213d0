package pricing

import (
	"math"
	"time"

	"github.com/chobie/go-gaussian"
)

// Valuation 是单个期权在给定假设下的估值结果。
type Valuation struct {
	Value float64 // 理论价值，>= 0
	Delta float64 // call 在 [0,1]，put 在 [-1,0]
	Vega  float64 // >= 0
}

const yearHours = 24 * 365

// TimeToExpiry 计算从 now 到 expiry 的剩余时间（年），已到期合约取 0。
func TimeToExpiry(expiry, now time.Time) float64 {
	t := expiry.Sub(now).Hours() / yearHours
	if t < 0 {
		return 0
	}
	return t
}

// Evaluate 基于 Black-Scholes 假设计算理论价值与希腊值。
// spot 为假设的标的价格，rate/vol 为固定的利率与波动率假设。
// kind 非法时返回 ErrInvalidOptionKind，调用方应中止该合约本轮计算。
func Evaluate(kind Kind, strike float64, expiry, now time.Time, spot, rate, vol float64) (Valuation, error) {
	if !kind.Valid() {
		return Valuation{}, ErrInvalidOptionKind
	}
	t := TimeToExpiry(expiry, now)
	if t <= 0 || vol <= 0 || spot <= 0 || strike <= 0 {
		return expiredValuation(kind, strike, spot), nil
	}

	norm := gaussian.NewGaussian(0, 1)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*t) / (vol * math.Sqrt(t))
	d2 := d1 - vol*math.Sqrt(t)

	var v Valuation
	switch kind {
	case Call:
		v.Value = spot*norm.Cdf(d1) - strike*math.Exp(-rate*t)*norm.Cdf(d2)
		v.Delta = norm.Cdf(d1)
	case Put:
		v.Value = strike*math.Exp(-rate*t)*norm.Cdf(-d2) - spot*norm.Cdf(-d1)
		v.Delta = norm.Cdf(d1) - 1
	}
	v.Vega = spot * norm.Pdf(d1) * math.Sqrt(t)
	if v.Value < 0 {
		v.Value = 0
	}
	return v, nil
}

// expiredValuation 退化为内在价值：到期（或参数退化）时理论价即行权收益。
func expiredValuation(kind Kind, strike, spot float64) Valuation {
	var v Valuation
	switch kind {
	case Call:
		v.Value = math.Max(spot-strike, 0)
		if spot > strike {
			v.Delta = 1
		}
	case Put:
		v.Value = math.Max(strike-spot, 0)
		if spot < strike {
			v.Delta = -1
		}
	}
	return v
}
