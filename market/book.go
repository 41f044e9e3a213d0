package market

import "errors"

// ErrEmptyBook 表示盘口单边或双边为空，本轮跳过该品种，不视为致命错误。
var ErrEmptyBook = errors.New("order book empty on bid or ask side")

// Level 表示盘口中的一档（价格+数量）。
type Level struct {
	Price  float64
	Volume int
}

// Book 是某一品种的盘口快照，买卖两侧均按最优价在前排序。
// 任一侧都可能为空；空侧必须按"无报价"处理，绝不能当作价格 0。
type Book struct {
	Bids []Level
	Asks []Level
}

// BestBid 返回最优买价；第二个返回值表明买侧是否有报价。
func (b Book) BestBid() (Level, bool) {
	if len(b.Bids) == 0 {
		return Level{}, false
	}
	return b.Bids[0], true
}

// BestAsk 返回最优卖价；第二个返回值表明卖侧是否有报价。
func (b Book) BestAsk() (Level, bool) {
	if len(b.Asks) == 0 {
		return Level{}, false
	}
	return b.Asks[0], true
}

// Midpoint 返回买卖最优价的中间价；任一侧为空时 ok=false。
func (b Book) Midpoint() (mid float64, ok bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return (bid.Price + ask.Price) / 2, true
}
