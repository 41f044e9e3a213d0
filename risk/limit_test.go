package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-maker-go/venue"
)

func TestPositionCap(t *testing.T) {
	cases := []struct {
		strike, spot float64
		limit        int
		want         int
	}{
		{50, 50, 100, 100},
		{25, 100, 100, 25},
		{100, 25, 100, 25}, // strike/spot 互换对称
		{75, 60, 100, 80},
		{60, 75, 100, 80},
		{50, 50, 50, 50}, // 配置的限额决定平值上限
		{50, 60, 50, 42},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PositionCap(c.strike, c.spot, c.limit),
			"PositionCap(%v,%v,%d)", c.strike, c.spot, c.limit)
	}
}

func TestWouldBreach(t *testing.T) {
	breach, err := WouldBreach(95, 5, venue.Bid, 100)
	require.NoError(t, err)
	assert.False(t, breach, "95+5 不应突破 100")

	breach, err = WouldBreach(95, 6, venue.Bid, 100)
	require.NoError(t, err)
	assert.True(t, breach, "95+6 应突破 100")

	breach, err = WouldBreach(-95, 6, venue.Ask, 100)
	require.NoError(t, err)
	assert.True(t, breach, "-95-6 应突破 -100")

	breach, err = WouldBreach(-100, 5, venue.Bid, 100)
	require.NoError(t, err)
	assert.False(t, breach, "从 -100 买回必须放行")
}

func TestWouldBreachInvalidSide(t *testing.T) {
	_, err := WouldBreach(0, 1, venue.Side("buy"), 100)
	assert.ErrorIs(t, err, venue.ErrInvalidSide)
}

func TestCheckOrder(t *testing.T) {
	assert.NoError(t, CheckOrder(95, 5, venue.Bid, 100))
	assert.ErrorIs(t, CheckOrder(95, 6, venue.Bid, 100), ErrPositionLimit)
	assert.ErrorIs(t, CheckOrder(0, 1, venue.Side("sell"), 100), venue.ErrInvalidSide)
}
