package market

import "testing"

func TestMidpoint(t *testing.T) {
	book := Book{
		Bids: []Level{{Price: 59.9, Volume: 100}},
		Asks: []Level{{Price: 60.1, Volume: 80}},
	}
	mid, ok := book.Midpoint()
	if !ok || mid != 60.0 {
		t.Fatalf("expected mid 60.0, got %v ok=%v", mid, ok)
	}
}

// 空侧必须表现为"无报价"，绝不能算出价格 0 的中间价。
func TestMidpointEmptySides(t *testing.T) {
	cases := []Book{
		{},
		{Bids: []Level{{Price: 59.9, Volume: 1}}},
		{Asks: []Level{{Price: 60.1, Volume: 1}}},
	}
	for i, book := range cases {
		if _, ok := book.Midpoint(); ok {
			t.Fatalf("case %d: expected no midpoint", i)
		}
	}
}

func TestBestLevels(t *testing.T) {
	book := Book{
		Bids: []Level{{Price: 59.9, Volume: 100}, {Price: 59.8, Volume: 50}},
		Asks: []Level{{Price: 60.1, Volume: 80}, {Price: 60.2, Volume: 40}},
	}
	bid, ok := book.BestBid()
	if !ok || bid.Price != 59.9 {
		t.Fatalf("unexpected best bid: %+v ok=%v", bid, ok)
	}
	ask, ok := book.BestAsk()
	if !ok || ask.Price != 60.1 {
		t.Fatalf("unexpected best ask: %+v ok=%v", ask, ok)
	}
	if _, ok := (Book{}).BestBid(); ok {
		t.Fatal("empty book must not have a best bid")
	}
}
