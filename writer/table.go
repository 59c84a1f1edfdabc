package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/olekukonko/tablewriter"
	"github.com/polyrabbit/coin-dashboard/config"
	"github.com/polyrabbit/coin-dashboard/fetch"
	"github.com/polyrabbit/coin-dashboard/market"
	"github.com/polyrabbit/coin-dashboard/query"
)

const defaultGridWidth = 120

// Writer repaints the dashboard in place on every Render, so auto refresh
// does not scroll the terminal.
type Writer struct {
	*uilive.Writer
	table   *tablewriter.Table
	columns []string
	layout  string
	width   int
}

// Set up ascii table writer
func New(out io.Writer, cfg *config.Config) *Writer {
	w := &Writer{Writer: uilive.New(), columns: cfg.Columns, layout: cfg.Layout, width: defaultGridWidth}
	w.Writer.Out = out
	w.table = tablewriter.NewWriter(w.Writer)
	w.table.SetAutoFormatHeaders(false)
	w.table.SetAutoWrapText(false)
	formattedHeaders := make([]string, len(w.columns))
	for i, hdr := range w.columns {
		formattedHeaders[i] = color.YellowString(hdr)
	}
	w.table.SetHeader(formattedHeaders)
	w.table.SetRowLine(true)
	w.table.SetCenterSeparator(faint("-"))
	w.table.SetColumnSeparator(faint("|"))
	w.table.SetRowSeparator(faint("-"))
	return w
}

func (w *Writer) Render(snap query.Snapshot) {
	switch snap.State.Status {
	case fetch.Idle, fetch.Loading:
		fmt.Fprintln(w.Writer, "Loading...")
	case fetch.Error:
		fmt.Fprintln(w.Writer, RenderError(snap.State.ErrorMessage()))
	default:
		fmt.Fprintf(w.Writer, "%s · %d coins · %s\n", faint(snap.Params.Sort.Label()), len(snap.Coins),
			faint(fmt.Sprintf("limit %d", snap.Params.Limit)))
		if w.layout == config.LayoutTable {
			w.renderTable(snap.Coins)
		} else {
			fmt.Fprintln(w.Writer, RenderGrid(snap.Coins, w.width))
		}
	}
	w.Flush()
}

func (w *Writer) renderTable(coins []market.Coin) {
	w.table.ClearRows()
	// Fill in data
	for _, coin := range coins {
		columns := make([]string, 0, len(w.columns))
		for _, hdr := range w.columns {
			switch strings.ToLower(hdr) {
			case strings.ToLower(config.ColumnName):
				columns = append(columns, coin.Name)
			case strings.ToLower(config.ColumnSymbol):
				columns = append(columns, strings.ToUpper(coin.Symbol))
			case strings.ToLower(config.ColumnPrice):
				columns = append(columns, FormatMoney(coin.CurrentPrice))
			case strings.ToLower(config.ColumnChange24hPct):
				columns = append(columns, Highlight(coin.PriceChangePercentage24h, FormatChange(coin.PriceChangePercentage24h)))
			case strings.ToLower(config.ColumnMarketCap):
				columns = append(columns, FormatMoney(coin.MarketCap))
			case strings.ToLower(config.ColumnImage):
				columns = append(columns, coin.Image)
			default:
				// config.Validate rejects unknown columns
				columns = append(columns, "")
			}
		}
		w.table.Append(columns)
	}
	w.table.Render()
}
