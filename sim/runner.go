// Package sim 在内存交易所上驱动完整的报价-对冲链路：标的中间价做
// 高斯随机游走，用于离线观察策略行为，不连接真实交易所。
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"options-maker-go/infrastructure/logger"
	"options-maker-go/internal/engine"
	"options-maker-go/market"
	"options-maker-go/metrics"
	"options-maker-go/posttrade"
	"options-maker-go/pricing"
	"options-maker-go/strategy"
	"options-maker-go/venue/venuetest"
)

const stockID = "SIM-STOCK"

// Config 控制一次模拟。
type Config struct {
	Iterations int
	Spot       float64 // 初始中间价
	Volatility float64 // 定价使用的波动率假设
	StepSigma  float64 // 随机游走单步标准差
	Seed       int64
}

// Summary 是一次模拟结束后的汇总。
type Summary struct {
	Iterations int
	Skipped    int
	Inserts    int
	Cancels    int
	FinalMid   float64
	Stance     strategy.Stance
	Fills      posttrade.Stats
}

func (s Summary) String() string {
	return fmt.Sprintf("iterations=%d skipped=%d inserts=%d cancels=%d final_mid=%.2f fills=%d capture=%.2f",
		s.Iterations, s.Skipped, s.Inserts, s.Cancels, s.FinalMid, s.Fills.TotalFills, s.Fills.CaptureVolume)
}

// Runner 将随机行情、内存交易所与交易引擎串起来。
type Runner struct {
	cfg    Config
	venue  *venuetest.Venue
	engine *engine.Engine
	fills  *posttrade.Analyzer
	rnd    *rand.Rand
	mid    float64
}

// New 构建模拟环境：四张围绕初始价的期权，两侧各一轮行权价。
func New(cfg Config, log *logger.Logger) *Runner {
	if cfg.StepSigma <= 0 {
		cfg.StepSigma = 1.0
	}
	expiry := time.Now().Add(90 * 24 * time.Hour)
	lowStrike := market.RoundDownToTick(cfg.Spot*0.85, 1)
	highStrike := market.RoundUpToTick(cfg.Spot*1.15, 1)
	options := []*strategy.Option{
		{ID: fmt.Sprintf("SIM-%03.0fC", lowStrike), Expiry: expiry, Strike: lowStrike, Kind: pricing.Call},
		{ID: fmt.Sprintf("SIM-%03.0fP", lowStrike), Expiry: expiry, Strike: lowStrike, Kind: pricing.Put},
		{ID: fmt.Sprintf("SIM-%03.0fC", highStrike), Expiry: expiry, Strike: highStrike, Kind: pricing.Call},
		{ID: fmt.Sprintf("SIM-%03.0fP", highStrike), Expiry: expiry, Strike: highStrike, Kind: pricing.Put},
	}

	v := venuetest.New()
	rnd := rand.New(rand.NewSource(cfg.Seed))
	eng := engine.New(engine.Config{
		Underlying:      stockID,
		InterestRate:    0.0,
		Volatility:      cfg.Volatility,
		TickSize:        0.10,
		BaseVolume:      10,
		PositionLimit:   100,
		HedgeDeadband:   20,
		StanceThreshold: 80,
		QuotePause:      time.Millisecond,
		LoopPause:       time.Millisecond,
	}, v, options, log, metrics.New(prometheus.NewRegistry()), rnd)

	fills := posttrade.NewAnalyzer()
	eng.SetFillRecorder(fills)

	return &Runner{
		cfg:    cfg,
		venue:  v,
		engine: eng,
		fills:  fills,
		rnd:    rnd,
		mid:    cfg.Spot,
	}
}

// Run 执行全部迭代并返回汇总。单轮失败只计数，不中断模拟。
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	skipped := 0
	for i := 0; i < r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		r.step()
		if err := r.engine.RunOnce(ctx); err != nil {
			skipped++
		}
	}
	return Summary{
		Iterations: r.cfg.Iterations,
		Skipped:    skipped,
		Inserts:    len(r.venue.Inserts()),
		Cancels:    r.venue.Deletes(),
		FinalMid:   r.mid,
		Stance:     r.engine.Stance(),
		Fills:      r.fills.Stats(),
	}, nil
}

// step 推进一步随机游走并刷新标的盘口。
func (r *Runner) step() {
	r.mid += r.rnd.NormFloat64() * r.cfg.StepSigma
	if r.mid < 1 {
		r.mid = 1
	}
	bid := market.RoundDownToTick(r.mid-0.05, 0.10)
	ask := market.RoundUpToTick(r.mid+0.05, 0.10)
	r.venue.SetBook(stockID, market.Book{
		Bids: []market.Level{{Price: bid, Volume: 200}, {Price: bid - 0.10, Volume: 400}},
		Asks: []market.Level{{Price: ask, Volume: 200}, {Price: ask + 0.10, Volume: 400}},
	})
}
