package writer

import (
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	printer = message.NewPrinter(language.English)
	faint   = color.New(color.Faint).SprintFunc()
	one     = decimal.NewFromInt(1)
)

// FormatMoney groups thousands like a browser's toLocaleString does. Prices
// under one dollar keep more fractional digits, otherwise most of them would print as 0.
func FormatMoney(d decimal.Decimal) string {
	digits := 3
	if d.Abs().LessThan(one) {
		digits = 8
	}
	f, _ := d.Float64()
	return "$" + printer.Sprint(number.Decimal(f, number.MaxFractionDigits(digits)))
}

func FormatChange(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// Highlight colors text by the sign of pct.
func Highlight(pct decimal.Decimal, text string) string {
	switch pct.Sign() {
	case 1:
		return color.GreenString(text)
	case -1:
		return color.RedString(text)
	}
	return faint(text)
}
