package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-maker-go/infrastructure/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	zl, err := logger.New(logger.Config{Level: "error", Outputs: []string{"stdout"}, Format: "json"})
	require.NoError(t, err)
	return zl
}

func TestRunProducesQuotes(t *testing.T) {
	r := New(Config{Iterations: 5, Spot: 60, Volatility: 3.0, Seed: 1}, newTestLogger(t))

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Iterations)
	assert.Zero(t, summary.Skipped)
	// 四张期权双边报价，多轮撤单重挂必然产生下单与撤单。
	assert.Greater(t, summary.Inserts, 0)
	assert.Greater(t, summary.Cancels, 0)
	assert.Greater(t, summary.FinalMid, 0.0)
}

// 相同种子的两次模拟产生完全相同的轨迹。
func TestRunDeterministicBySeed(t *testing.T) {
	cfg := Config{Iterations: 8, Spot: 60, Volatility: 3.0, Seed: 42}
	s1, err := New(cfg, newTestLogger(t)).Run(context.Background())
	require.NoError(t, err)
	s2, err := New(cfg, newTestLogger(t)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, s1.Inserts, s2.Inserts)
	assert.Equal(t, s1.Cancels, s2.Cancels)
	assert.Equal(t, s1.FinalMid, s2.FinalMid)
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{Iterations: 100, Spot: 60, Volatility: 3.0, Seed: 1}, newTestLogger(t)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
