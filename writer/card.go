package writer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/polyrabbit/coin-dashboard/market"
)

const (
	cardWidth = 36
	cardGap   = 1
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(cardWidth)
	nameStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// RenderCard draws one coin. Terminals can't show the logo so its URL is printed instead.
func RenderCard(coin market.Coin) string {
	change := "24h Change: " + FormatChange(coin.PriceChangePercentage24h)
	if coin.PriceChangePercentage24h.Sign() > 0 {
		change = positiveStyle.Render(change)
	} else {
		change = negativeStyle.Render(change)
	}
	lines := []string{
		nameStyle.Render(coin.Name) + " " + dimStyle.Render(strings.ToUpper(coin.Symbol)),
		dimStyle.Render(truncate(coin.Image, cardWidth-2)),
		"Price: " + FormatMoney(coin.CurrentPrice),
		change,
		"Market Cap: " + FormatMoney(coin.MarketCap),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// RenderGrid lays cards out left to right, as many per row as width allows.
func RenderGrid(coins []market.Coin, width int) string {
	perRow := width / (cardWidth + 2 + cardGap)
	if perRow < 1 {
		perRow = 1
	}
	var rows []string
	for start := 0; start < len(coins); start += perRow {
		end := start + perRow
		if end > len(coins) {
			end = len(coins)
		}
		var cards []string
		for i, coin := range coins[start:end] {
			if i > 0 {
				cards = append(cards, strings.Repeat(" ", cardGap))
			}
			cards = append(cards, RenderCard(coin))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

func RenderError(message string) string {
	return ErrorStyle.Render("❌ " + message)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
