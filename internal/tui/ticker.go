package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/cheshdao/grinterm/internal/market"
)

const tickerGap = "   "

// renderTicker renders the trending-token header row. Entries are dropped
// from the tail once the terminal width is used up; truncation happens on
// the unstyled text so ANSI sequences don't skew width math.
func (m model) renderTicker(width int) string {
	if len(m.trending) == 0 {
		return styleStatusBar.Render("trending: --")
	}

	var parts []string
	used := 0
	for _, t := range m.trending {
		plain, styled := formatTickerEntry(t)
		w := runewidth.StringWidth(plain)
		if len(parts) > 0 {
			w += runewidth.StringWidth(tickerGap)
		}
		if used+w > width {
			break
		}
		used += w
		parts = append(parts, styled)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, tickerGap)
}

func formatTickerEntry(t market.TrendingToken) (plain, styled string) {
	change := fmt.Sprintf("%+.2f%%", t.Price24hChangePercent)
	changeStyle := styleTickerUp
	if t.Price24hChangePercent < 0 {
		changeStyle = styleTickerDown
	}

	digits := 2
	if t.Price < 1 {
		digits = 6
	}
	price := "$" + humanize.CommafWithDigits(t.Price, digits)

	plain = fmt.Sprintf("%s %s %s", t.Symbol, price, change)
	styled = fmt.Sprintf("%s %s %s",
		styleTickerSymbol.Render(t.Symbol),
		changeStyle.Render(price),
		changeStyle.Render(change),
	)
	return plain, styled
}
