package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cheshdao/grinterm/internal/market"
)

func TestFormatTickerEntry(t *testing.T) {
	plain, styled := formatTickerEntry(market.TrendingToken{
		Symbol:                "CHESH",
		Price:                 0.4215,
		Price24hChangePercent: -3.518,
	})
	assert.Equal(t, "CHESH $0.4215 -3.52%", plain)
	assert.Contains(t, styled, "CHESH")
	assert.Contains(t, styled, "-3.52%")
}

func TestFormatTickerEntryLargePrice(t *testing.T) {
	plain, _ := formatTickerEntry(market.TrendingToken{
		Symbol:                "GRIN",
		Price:                 1234.5,
		Price24hChangePercent: 12,
	})
	assert.Equal(t, "GRIN $1,234.5 +12.00%", plain)
}

func TestRenderTickerDropsEntriesThatOverflow(t *testing.T) {
	m := model{trending: []market.TrendingToken{
		{Symbol: "AAA", Price: 1, Price24hChangePercent: 1},
		{Symbol: "BBB", Price: 2, Price24hChangePercent: 2},
		{Symbol: "CCC", Price: 3, Price24hChangePercent: 3},
	}}

	wide := m.renderTicker(200)
	assert.Contains(t, wide, "CCC")

	narrow := m.renderTicker(20)
	assert.Contains(t, narrow, "AAA")
	assert.NotContains(t, narrow, "BBB")
}

func TestRenderTickerEmpty(t *testing.T) {
	m := model{}
	assert.Contains(t, m.renderTicker(80), "trending: --")
}
