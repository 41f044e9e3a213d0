// Package metrics 提供做市循环的 Prometheus 指标。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set 聚合全部指标，由 New 绑定到指定 Registerer。
type Set struct {
	Iterations      prometheus.Counter
	QuotesInserted  *prometheus.CounterVec
	OrdersCancelled prometheus.Counter
	HedgeOrders     prometheus.Counter
	EmptyBookSkips  prometheus.Counter
	VenueErrors     prometheus.Counter
	RiskRejects     prometheus.Counter
	NetDelta        prometheus.Gauge
	StockPosition   prometheus.Gauge
	Midpoint        prometheus.Gauge
	RealizedVol     prometheus.Gauge
}

// New 创建并注册指标集合。
func New(reg prometheus.Registerer) *Set {
	factory := promauto.With(reg)
	return &Set{
		Iterations: factory.NewCounter(prometheus.CounterOpts{
			Name: "mm_loop_iterations_total",
			Help: "完成的交易循环迭代数",
		}),
		QuotesInserted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_quotes_inserted_total",
			Help: "已挂入的限价报价数",
		}, []string{"side"}),
		OrdersCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "mm_orders_cancelled_total",
			Help: "撤单-重报周期中撤掉的挂单数",
		}),
		HedgeOrders: factory.NewCounter(prometheus.CounterOpts{
			Name: "mm_hedge_orders_total",
			Help: "已发送的标的 IOC 对冲单数",
		}),
		EmptyBookSkips: factory.NewCounter(prometheus.CounterOpts{
			Name: "mm_empty_book_skips_total",
			Help: "因盘口为空跳过的迭代/品种数",
		}),
		VenueErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "mm_venue_errors_total",
			Help: "交易所调用失败次数",
		}),
		RiskRejects: factory.NewCounter(prometheus.CounterOpts{
			Name: "mm_risk_rejects_total",
			Help: "本地仓位限额拒绝的下单数",
		}),
		NetDelta: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mm_net_delta",
			Help: "对冲前的净 delta 敞口（总 delta + 标的持仓）",
		}),
		StockPosition: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mm_stock_position",
			Help: "标的股票持仓",
		}),
		Midpoint: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mm_stock_midpoint",
			Help: "标的盘口中间价",
		}),
		RealizedVol: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mm_realized_volatility",
			Help: "按中间价估计的年化已实现波动率（诊断用）",
		}),
	}
}

// StartServer 启动 Prometheus 指标服务器。
func StartServer(addr string, gatherer prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
