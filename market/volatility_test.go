package market

import (
	"math"
	"testing"
	"time"
)

func TestVolatilityNotReady(t *testing.T) {
	v := NewVolatilityTracker(16, time.Second)
	if v.Ready() {
		t.Fatal("no samples, must not be ready")
	}
	v.Observe(60)
	if v.Ready() || v.Realized() != 0 {
		t.Fatal("single sample, must not produce an estimate")
	}
}

func TestVolatilityConstantPrice(t *testing.T) {
	v := NewVolatilityTracker(8, time.Second)
	for i := 0; i < 8; i++ {
		v.Observe(60)
	}
	if got := v.Realized(); got != 0 {
		t.Fatalf("constant price must have zero vol, got %v", got)
	}
}

func TestVolatilityAlternatingPrice(t *testing.T) {
	// 交替 ±1% 的对数收益：均值 0，标准差为收益绝对值。
	v := NewVolatilityTracker(64, time.Second)
	up := 60 * math.Exp(0.01)
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			v.Observe(60)
		} else {
			v.Observe(up)
		}
	}
	perSample := 0.01
	annualized := perSample * math.Sqrt(float64(365*24*time.Hour/time.Second))
	if got := v.Realized(); math.Abs(got-annualized) > annualized*1e-6 {
		t.Fatalf("expected %v, got %v", annualized, got)
	}
}

func TestVolatilityWindowEviction(t *testing.T) {
	v := NewVolatilityTracker(4, time.Second)
	// 先灌入剧烈波动，然后用常数价把窗口冲掉。
	v.Observe(60)
	v.Observe(120)
	for i := 0; i < 4; i++ {
		v.Observe(80)
	}
	if got := v.Realized(); got != 0 {
		t.Fatalf("old shock must have been evicted, got %v", got)
	}
}

func TestVolatilityIgnoresNonPositive(t *testing.T) {
	v := NewVolatilityTracker(4, time.Second)
	v.Observe(60)
	v.Observe(0)
	v.Observe(-1)
	if v.Ready() {
		t.Fatal("non-positive samples must be ignored")
	}
}
