package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"api_ledger/internal/ledger"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard metrics of the stored ledger",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().String("backend", "file", "table backend: file, blob or memory")
	summaryCmd.Flags().String("table-path", "../vista-sot-master.csv", "CSV file of the file backend")
	summaryCmd.Flags().StringP("query", "q", "", "only lines whose item, invoice or marketplace contains this")
	summaryCmd.Flags().StringP("format", "f", "table", "output format: table, json or yaml")
	summaryCmd.Flags().Bool("lines", false, "also list the matching lines")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "backend", "table-path")
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	svc := a.ledgerService()
	if _, err := svc.Load(cmd.Context()); err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	format, _ := cmd.Flags().GetString("format")
	withLines, _ := cmd.Flags().GetBool("lines")

	w := cmd.OutOrStdout()
	if withLines && format == "table" {
		renderLines(w, svc.List(query))
		fmt.Fprintln(w)
	}
	return renderSummary(w, svc.Summary(query), format)
}

// renderSummary writes s as a table, JSON or YAML.
func renderSummary(w io.Writer, s ledger.Summary, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"METRIC", "VALUE", "DETAIL"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	tw.AppendRows([]table.Row{
		{"Realized Profit", s.Display.Realized, "After fees & shipping"},
		{"Gross Sales", s.Display.Sold, fmt.Sprintf("%d paid lines", s.SoldLines)},
		{"Cash Outlay", s.Display.Paid, fmt.Sprintf("%d active lines", s.Lines)},
		{"ROI vs Paid", s.Display.ROI, "Realized / Paid"},
		{"Sell-through", s.Display.SellThrough, fmt.Sprintf("%d/%d lines", s.SoldLines, max(s.Lines, 1))},
		{"Avg Ticket", s.Display.AvgTicket, "Per sold line"},
		{"Shipping Spend", s.Display.Shipping, "Outbound postage"},
		{"Marketplace Fees", s.Display.Fees, "Platform charges"},
	})
	tw.Render()
	return nil
}

// renderLines writes one table row per line in tabular column order.
func renderLines(w io.Writer, entries []ledger.Entry) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	hdr := make(table.Row, len(ledger.Headers))
	for i, h := range ledger.Headers {
		hdr[i] = strings.ToUpper(h)
	}
	tw.AppendHeader(hdr)

	cfgs := make([]table.ColumnConfig, 0, len(ledger.Headers))
	for i := range ledger.Headers {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: 32}
		switch ledger.Headers[i] {
		case ledger.ColInvoice, ledger.ColPurchaseDate, ledger.ColItem, ledger.ColMarketplace:
		default:
			cfg.Align = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	tw.SetColumnConfigs(cfgs)

	for _, e := range entries {
		cells := ledger.EncodeRow(e.LineItem)
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		tw.AppendRow(row)
	}
	tw.Render()
}
