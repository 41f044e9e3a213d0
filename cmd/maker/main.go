package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"options-maker-go/config"
	"options-maker-go/infrastructure/logger"
	"options-maker-go/internal/engine"
	"options-maker-go/metrics"
	"options-maker-go/strategy"
	"options-maker-go/venue/ws"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	seed := flag.Int64("seed", 0, "报价平局打破的随机种子，0 表示取当前时间")
	watchConfig := flag.Bool("watchConfig", true, "是否热加载配置")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zl, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zl.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		metrics.StartServer(cfg.MetricsAddr, reg)
	}

	options, err := config.BuildOptions(cfg)
	if err != nil {
		zl.Fatal("构建期权列表失败", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := ws.Dial(ctx, cfg.Venue.Endpoint, cfg.Venue.AuthToken)
	if err != nil {
		zl.Fatal("连接交易所失败", zap.Error(err))
	}
	defer client.Close()

	if err := strategy.SeedLastQuotes(ctx, client, options); err != nil {
		zl.Warn("初始化期权展示价失败", zap.Error(err))
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(*seed))

	eng := engine.New(engine.Config{
		Underlying:      cfg.Trading.Underlying,
		InterestRate:    cfg.Trading.InterestRate,
		Volatility:      cfg.Trading.Volatility,
		TickSize:        cfg.Trading.TickSize,
		BaseVolume:      cfg.Trading.BaseVolume,
		PositionLimit:   cfg.Trading.PositionLimit,
		HedgeDeadband:   cfg.Trading.HedgeDeadband,
		StanceThreshold: cfg.Trading.StanceThreshold,
		QuotePause:      time.Duration(cfg.Trading.QuotePauseMs) * time.Millisecond,
		LoopPause:       time.Duration(cfg.Trading.LoopPauseMs) * time.Millisecond,
	}, client, options, zl, m, rnd)

	// systemd watchdog：每轮迭代喂一次狗。
	eng.SetIterationHook(func() {
		_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
	})

	if *watchConfig {
		watcher := config.Watcher{Path: *cfgPath}
		go func() {
			err := watcher.Start(ctx, func(next config.AppConfig) {
				eng.UpdateParams(next.Trading.BaseVolume, next.Trading.HedgeDeadband, next.Trading.StanceThreshold, next.Trading.PositionLimit)
				zl.Info("配置已热更新",
					zap.Int("base_volume", next.Trading.BaseVolume),
					zap.Float64("hedge_deadband", next.Trading.HedgeDeadband),
					zap.Int("stance_threshold", next.Trading.StanceThreshold),
					zap.Int("position_limit", next.Trading.PositionLimit))
			})
			if err != nil && ctx.Err() == nil {
				zl.Warn("配置监听退出", zap.Error(err))
			}
		}()
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	zl.Info("做市循环启动",
		zap.String("underlying", cfg.Trading.Underlying),
		zap.Int("options", len(options)),
		zap.Int64("seed", *seed))

	if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Error("做市循环异常退出", zap.Error(err))
		os.Exit(1)
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	zl.Info("做市循环已停止")
}
