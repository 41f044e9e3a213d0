package strategy

import (
	"context"
	"testing"
	"time"

	"options-maker-go/market"
	"options-maker-go/pricing"
	"options-maker-go/venue/venuetest"
)

func TestSeedLastQuotes(t *testing.T) {
	v := venuetest.New()
	liquid := &Option{ID: "LQD", Expiry: time.Now().Add(time.Hour), Strike: 50, Kind: pricing.Call}
	empty := &Option{ID: "EMPTY", Expiry: time.Now().Add(time.Hour), Strike: 50, Kind: pricing.Put}
	v.SetBook(liquid.ID, market.Book{
		Bids: []market.Level{{Price: 9.8, Volume: 10}},
		Asks: []market.Level{{Price: 10.2, Volume: 10}},
	})

	if err := SeedLastQuotes(context.Background(), v, []*Option{liquid, empty}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if liquid.LastBid != 9.8 || liquid.LastAsk != 10.2 {
		t.Fatalf("liquid option not seeded: %v/%v", liquid.LastBid, liquid.LastAsk)
	}
	// 空盘口的合约跳过，保持零值。
	if empty.LastBid != 0 || empty.LastAsk != 0 {
		t.Fatalf("empty-book option must be skipped: %v/%v", empty.LastBid, empty.LastAsk)
	}
}
