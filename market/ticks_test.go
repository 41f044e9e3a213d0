package market

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDownToTick(t *testing.T) {
	assert.InDelta(t, 0.90, RoundDownToTick(0.97, 0.10), 1e-9)
	assert.InDelta(t, 9.80, RoundDownToTick(9.85, 0.10), 1e-9)
}

func TestRoundUpToTick(t *testing.T) {
	assert.InDelta(t, 1.40, RoundUpToTick(1.34, 0.10), 1e-9)
	assert.InDelta(t, 10.20, RoundUpToTick(10.15, 0.10), 1e-9)
}

// 任意价格与 tick 的有界性：down ≤ p < down+tick，up−tick < p ≤ up。
func TestRoundingBounds(t *testing.T) {
	prices := []float64{0, 0.05, 0.97, 1.34, 9.85, 10.0, 55.55, 123.456}
	ticks := []float64{0.10, 0.05, 0.5, 1}
	for _, tick := range ticks {
		for _, p := range prices {
			down := RoundDownToTick(p, tick)
			up := RoundUpToTick(p, tick)
			label := fmt.Sprintf("p=%v tick=%v", p, tick)
			assert.LessOrEqual(t, down, p+1e-9, label)
			assert.Less(t, p, down+tick, label)
			assert.GreaterOrEqual(t, up, p-1e-9, label)
			assert.Greater(t, p, up-tick, label)
		}
	}
}

// tick 的整数倍取整后保持不变。
func TestRoundingIdempotentOnMultiples(t *testing.T) {
	for i := 0; i <= 100; i++ {
		p := float64(i) * 0.5
		assert.InDelta(t, p, RoundDownToTick(p, 0.5), 1e-9)
		assert.InDelta(t, p, RoundUpToTick(p, 0.5), 1e-9)
	}
}
