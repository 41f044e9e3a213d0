package strategy

// Stance 记录对冲方向压制状态：当标的持仓接近限额时，
// 强制只允许使总 delta 向某个方向移动的报价通过。
// 它是迭代之间唯一共享的状态：对冲步骤写入，下一轮的所有报价读取。
type Stance struct {
	ForceIncrease bool // 压制 call 的卖报价与 put 的买报价
	ForceDecrease bool // 压制 call 的买报价与 put 的卖报价
}

// DefaultThreshold 是进入压制状态的标的持仓阈值。
const DefaultThreshold = 80

// Next 根据对冲后的标的持仓推进状态，返回下一轮生效的 Stance。
// 分支结构（含 ±threshold 边界同时参与置位与清除）按既有行为原样保留，
// 不做边界"修复"。
func Next(prev Stance, stockPosition, threshold int) Stance {
	s := prev
	if stockPosition >= threshold {
		s.ForceIncrease = true
	} else if stockPosition <= threshold {
		s.ForceDecrease = false
	}
	if stockPosition <= -threshold {
		s.ForceDecrease = true
	} else if stockPosition >= -threshold {
		s.ForceIncrease = false
	}
	return s
}
