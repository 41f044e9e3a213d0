// Package engine 串联行情、定价、报价与对冲，驱动做市主循环。
package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"options-maker-go/infrastructure/logger"
	"options-maker-go/market"
	"options-maker-go/metrics"
	"options-maker-go/pricing"
	"options-maker-go/risk"
	"options-maker-go/strategy"
	"options-maker-go/venue"
)

// Config 引擎配置
type Config struct {
	Underlying      string
	InterestRate    float64
	Volatility      float64
	TickSize        float64
	BaseVolume      int
	PositionLimit   int // 标的与期权共用的全局仓位限额，0 取 risk.HardLimit
	HedgeDeadband   float64
	StanceThreshold int
	QuotePause      time.Duration // 相邻期权之间的停顿（交易所频率限制）
	LoopPause       time.Duration // 相邻迭代之间的停顿
}

// Engine 按固定顺序执行：标的中间价 -> 逐个期权报价 -> delta 对冲 ->
// 推进方向压制状态。循环内严格串行，品种之间没有并发。
type Engine struct {
	mu  sync.Mutex // 保护可热更新的配置与 stance
	cfg Config

	venue   venue.Client
	quoter  *strategy.Quoter
	hedger  *strategy.Hedger
	log     *logger.Logger
	metrics *metrics.Set
	options []*strategy.Option
	pacer   *rate.Limiter

	// stance 由对冲步骤写入一次，下一轮迭代的全部报价读取，
	// 因此一轮内的报价看到的是上一轮对冲的决定。
	stance strategy.Stance

	// onIteration 每轮迭代结束后调用，用于 systemd watchdog 等外部心跳。
	onIteration func()

	// realizedVol 诊断用：对照固定波动率假设与市场实际波动。
	realizedVol *market.VolatilityTracker

	now func() time.Time
}

// New 创建引擎。rnd 为报价平局打破使用的随机源，可传入固定种子便于复现。
func New(cfg Config, client venue.Client, options []*strategy.Option, log *logger.Logger, m *metrics.Set, rnd *rand.Rand) *Engine {
	if cfg.QuotePause <= 0 {
		cfg.QuotePause = 100 * time.Millisecond
	}
	if cfg.LoopPause <= 0 {
		cfg.LoopPause = time.Second
	}
	if cfg.PositionLimit <= 0 {
		cfg.PositionLimit = risk.HardLimit
	}
	e := &Engine{
		cfg:         cfg,
		venue:       client,
		log:         log,
		metrics:     m,
		options:     options,
		pacer:       rate.NewLimiter(rate.Every(cfg.QuotePause), 1),
		realizedVol: market.NewVolatilityTracker(64, cfg.LoopPause),
		now:         time.Now,
	}
	e.quoter = &strategy.Quoter{
		Venue:   client,
		Log:     log.Logger,
		Metrics: m,
		Rand:    rnd,
	}
	e.hedger = &strategy.Hedger{
		Venue:        client,
		Log:          log.Logger,
		Metrics:      m,
		InterestRate: cfg.InterestRate,
		Volatility:   cfg.Volatility,
		Now:          func() time.Time { return e.now() },
	}
	return e
}

// SetIterationHook 注册每轮迭代后的回调。
func (e *Engine) SetIterationHook(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onIteration = fn
}

// SetFillRecorder 注册成交回报的旁路接收者（事后成交分析）。
func (e *Engine) SetFillRecorder(r strategy.FillRecorder) {
	e.quoter.Fills = r
}

// SetClock 注入估值时钟，测试用。
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// UpdateParams 在迭代之间应用热更新的交易参数。只改写持锁的 cfg 副本，
// 每轮迭代开始时整体读出，迭代中途不会看到混合值。
func (e *Engine) UpdateParams(baseVolume int, deadband float64, threshold, positionLimit int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if baseVolume > 0 {
		e.cfg.BaseVolume = baseVolume
	}
	if deadband >= 0 {
		e.cfg.HedgeDeadband = deadband
	}
	if threshold >= 0 {
		e.cfg.StanceThreshold = threshold
	}
	if positionLimit > 0 {
		e.cfg.PositionLimit = positionLimit
	}
}

// Stance 返回当前的方向压制状态（测试与诊断用）。
func (e *Engine) Stance() strategy.Stance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stance
}

// RunOnce 执行一轮完整迭代。标的盘口为空时返回 market.ErrEmptyBook，
// 调用方跳过本轮即可；单个期权的失败只记录，不影响其余期权与对冲。
func (e *Engine) RunOnce(ctx context.Context) error {
	e.mu.Lock()
	cfg := e.cfg
	st := e.stance
	e.mu.Unlock()

	stockBook, err := e.venue.PriceBook(ctx, cfg.Underlying)
	if err != nil {
		e.metrics.VenueErrors.Inc()
		return err
	}
	mid, ok := stockBook.Midpoint()
	if !ok {
		e.metrics.EmptyBookSkips.Inc()
		e.log.Warn("empty_stock_book", zap.String("instrument", cfg.Underlying))
		return market.ErrEmptyBook
	}
	e.metrics.Midpoint.Set(mid)
	e.realizedVol.Observe(mid)
	if e.realizedVol.Ready() {
		e.metrics.RealizedVol.Set(e.realizedVol.Realized())
	}
	now := e.now()

	for _, opt := range e.options {
		if err := e.pacer.Wait(ctx); err != nil {
			return err
		}
		if err := e.quoteOption(ctx, opt, mid, now, cfg, st); err != nil {
			// 单品种可恢复：记录后继续处理剩余期权。
			e.log.Warn("quote_update_failed",
				zap.String("instrument", opt.ID),
				zap.Error(err))
		}
	}

	net, err := e.hedger.HedgeDelta(ctx, cfg.Underlying, e.options, cfg.HedgeDeadband, cfg.PositionLimit)
	switch {
	case errors.Is(err, market.ErrEmptyBook):
		e.metrics.EmptyBookSkips.Inc()
		e.log.Warn("hedge_skipped_empty_book", zap.String("instrument", cfg.Underlying))
	case err != nil:
		e.log.Warn("hedge_failed", zap.Error(err))
	default:
		e.log.Info("hedge_done", zap.Float64("net_delta", net))
	}

	positions, err := e.venue.Positions(ctx)
	if err != nil {
		e.metrics.VenueErrors.Inc()
		return err
	}
	next := strategy.Next(st, positions[cfg.Underlying], cfg.StanceThreshold)
	e.mu.Lock()
	e.stance = next
	e.mu.Unlock()
	if next != st {
		e.log.Info("stance_changed",
			zap.Bool("force_increase", next.ForceIncrease),
			zap.Bool("force_decrease", next.ForceDecrease),
			zap.Int("stock_position", positions[cfg.Underlying]))
	}

	e.metrics.Iterations.Inc()
	return nil
}

// quoteOption 对单个期权完成估值、价差、限额与报价替换。
func (e *Engine) quoteOption(ctx context.Context, opt *strategy.Option, mid float64, now time.Time, cfg Config, st strategy.Stance) error {
	val, err := pricing.Evaluate(opt.Kind, opt.Strike, opt.Expiry, now, mid, cfg.InterestRate, cfg.Volatility)
	if err != nil {
		return err
	}
	optBook, err := e.venue.PriceBook(ctx, opt.ID)
	if err != nil {
		e.metrics.VenueErrors.Inc()
		return err
	}
	credit := strategy.Credit(val.Value, opt.Strike, optBook)
	posCap := risk.PositionCap(opt.Strike, mid, cfg.PositionLimit)

	e.log.Debug("option_valued",
		zap.String("instrument", opt.ID),
		zap.Float64("theo", val.Value),
		zap.Float64("delta", val.Delta),
		zap.Float64("vega", val.Vega),
		zap.Float64("credit", credit),
		zap.Int("position_cap", posCap))

	return e.quoter.UpdateQuotes(ctx, opt, strategy.QuoteParams{
		Theo:        val.Value,
		Credit:      credit,
		BaseVolume:  cfg.BaseVolume,
		PositionCap: posCap,
		TickSize:    cfg.TickSize,
		Stance:      st,
	})
}

// Run 循环执行 RunOnce 直到 ctx 结束。核心错误都不终止循环，
// 只有上下文取消会让它退出。
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := e.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !errors.Is(err, market.ErrEmptyBook) {
				e.log.Error("iteration_failed", zap.Error(err))
			}
		}

		e.mu.Lock()
		hook := e.onIteration
		pause := e.cfg.LoopPause
		e.mu.Unlock()
		if hook != nil {
			hook()
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
