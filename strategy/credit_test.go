package strategy

import (
	"math"
	"testing"

	"options-maker-go/market"
)

func TestIntrinsicBound(t *testing.T) {
	if got := IntrinsicBound(55, 50); math.Abs(got-4.9) > 1e-9 {
		t.Fatalf("V=55 K=50: expected 4.9, got %v", got)
	}
	if got := IntrinsicBound(45, 50); math.Abs(got-4.9) > 1e-9 {
		t.Fatalf("V=45 K=50: expected 4.9, got %v", got)
	}
	if got := IntrinsicBound(50, 50); got != 0 {
		t.Fatalf("V=K: expected 0, got %v", got)
	}
}

// 理论价紧贴行权价时内在边界为负，这是接受的设计行为。
func TestIntrinsicBoundNegative(t *testing.T) {
	if got := IntrinsicBound(50.05, 50); got >= 0 {
		t.Fatalf("expected negative bound, got %v", got)
	}
}

func TestMarketBoundNeedsTwoLevels(t *testing.T) {
	thin := market.Book{
		Bids: []market.Level{{Price: 9.5, Volume: 10}},
		Asks: []market.Level{{Price: 10.5, Volume: 10}, {Price: 10.6, Volume: 5}},
	}
	if got := MarketBound(10, thin); got != 0 {
		t.Fatalf("one bid level: expected 0, got %v", got)
	}
	if got := MarketBound(10, market.Book{}); got != 0 {
		t.Fatalf("empty book: expected 0, got %v", got)
	}
}

func TestMarketBoundTakesTighterSide(t *testing.T) {
	book := market.Book{
		Bids: []market.Level{{Price: 9.8, Volume: 10}, {Price: 9.4, Volume: 20}},
		Asks: []market.Level{{Price: 10.2, Volume: 10}, {Price: 10.3, Volume: 20}},
	}
	// |10-9.4|=0.6，|10.3-10|=0.3，取较小者。
	if got := MarketBound(10, book); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("expected 0.3, got %v", got)
	}
}

func TestCreditTakesMin(t *testing.T) {
	book := market.Book{
		Bids: []market.Level{{Price: 54, Volume: 10}, {Price: 53, Volume: 20}},
		Asks: []market.Level{{Price: 56, Volume: 10}, {Price: 57, Volume: 20}},
	}
	intrinsic := IntrinsicBound(55, 50)
	mkt := MarketBound(55, book)
	got := Credit(55, 50, book)
	if got > intrinsic+1e-9 || got > mkt+1e-9 {
		t.Fatalf("credit %v must not exceed min(%v,%v)", got, intrinsic, mkt)
	}
	if got != math.Min(intrinsic, mkt) {
		t.Fatalf("credit %v != min(%v,%v)", got, intrinsic, mkt)
	}
}
