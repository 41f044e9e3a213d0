package strategy

import "testing"

// 分支结构与既有行为保持一致（含 ±80 边界的置位/清除重叠），
// 这些用例锁定该行为，防止被"顺手修复"。
func TestStanceTransitions(t *testing.T) {
	cases := []struct {
		name string
		prev Stance
		pos  int
		want Stance
	}{
		{"neutral stays neutral", Stance{}, 0, Stance{}},
		// 高仓位：第一组分支置位 ForceIncrease，第二组的 else-if 又将其清除。
		{"high position clears increase again", Stance{}, 90, Stance{}},
		{"boundary +80", Stance{}, 80, Stance{}},
		// 低仓位进入 ForceDecrease，并保持到仓位回到 -80 以上。
		{"low position sets decrease", Stance{}, -90, Stance{ForceDecrease: true}},
		{"boundary -80 sets decrease", Stance{}, -80, Stance{ForceDecrease: true}},
		{"decrease clears above -80", Stance{ForceDecrease: true}, -79, Stance{}},
		{"decrease persists at -80", Stance{ForceDecrease: true}, -80, Stance{ForceDecrease: true}},
		// 仓位 >= 80 时第一组分支不触碰 ForceDecrease，旧值保留。
		{"decrease survives high position", Stance{ForceDecrease: true}, 90, Stance{ForceDecrease: true}},
		// 仓位 <= -80 时第二组的 else-if 不触发，ForceIncrease 旧值保留。
		{"increase survives deep short", Stance{ForceIncrease: true}, -90, Stance{ForceIncrease: true, ForceDecrease: true}},
		{"increase cleared in mid range", Stance{ForceIncrease: true}, 0, Stance{}},
	}
	for _, c := range cases {
		if got := Next(c.prev, c.pos, DefaultThreshold); got != c.want {
			t.Fatalf("%s: Next(%+v,%d)=%+v, want %+v", c.name, c.prev, c.pos, got, c.want)
		}
	}
}
