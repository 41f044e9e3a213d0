// Package risk 提供仓位限额相关的下单前校验。
package risk

import (
	"errors"
	"fmt"
	"math"

	"options-maker-go/venue"
)

// ErrPositionLimit 表示该笔订单会突破仓位限额，在本地拒绝，不提交到交易所。
var ErrPositionLimit = errors.New("position limit breach")

// HardLimit 是未配置时对所有品种（含标的股票）统一生效的默认仓位上限。
const HardLimit = 100

// PositionCap 根据行权价与标的价的偏离计算单个期权的动态仓位上限：
// ratio = min(strike, spot)/max(strike, spot)，cap = round(limit*ratio)。
// 离平值越远，上限越小。对 strike/spot 互换对称。
func PositionCap(strike, spot float64, limit int) int {
	var ratio float64
	if strike <= spot {
		ratio = strike / spot
	} else {
		ratio = spot / strike
	}
	return int(math.Round(float64(limit) * ratio))
}

// WouldBreach 报告以 position 为当前持仓、按 side 方向下 volume 手
// 是否会突破 limit。position 带符号。
func WouldBreach(position, volume int, side venue.Side, limit int) (bool, error) {
	switch side {
	case venue.Bid:
		return position+volume > limit, nil
	case venue.Ask:
		return position-volume < -limit, nil
	default:
		return false, fmt.Errorf("%w: %q", venue.ErrInvalidSide, side)
	}
}

// CheckOrder 在提交前做本地限额校验：突破时返回 ErrPositionLimit，
// 方向非法时返回 venue.ErrInvalidSide。调用方对前者跳过该笔即可，
// 后者必须向上传播。
func CheckOrder(position, volume int, side venue.Side, limit int) error {
	breach, err := WouldBreach(position, volume, side, limit)
	if err != nil {
		return err
	}
	if breach {
		return fmt.Errorf("%w: position %d, volume %d %s, limit %d",
			ErrPositionLimit, position, volume, side, limit)
	}
	return nil
}
