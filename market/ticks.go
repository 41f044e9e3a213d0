package market

import "math"

// RoundDownToTick 将价格向下取整到最近的 tick，例如 tick=0.10 时 0.97 -> 0.90。
// tick 必须大于 0，由 config.Validate 保证。
func RoundDownToTick(price, tick float64) float64 {
	return math.Floor(price/tick) * tick
}

// RoundUpToTick 将价格向上取整到最近的 tick，例如 tick=0.10 时 1.34 -> 1.40。
func RoundUpToTick(price, tick float64) float64 {
	return math.Ceil(price/tick) * tick
}
