package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"api_ledger/internal/ledger"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute profit and ROI of a table file",
	Long: `recompute reads a CSV or XLSX table, drops the totals row, recomputes
realized profit and ROI on every line and writes the table back out in the
fixed 14-column layout. The output format follows the --out extension;
without --out, CSV goes to stdout.`,
	RunE: runRecompute,
}

func init() {
	recomputeCmd.Flags().String("in", "", "input table (.csv or .xlsx)")
	recomputeCmd.Flags().String("out", "", "output table (.csv or .xlsx); stdout when empty")
	_ = recomputeCmd.MarkFlagRequired("in")
}

func runRecompute(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")

	inFmt, err := ledger.FormatFromName(in)
	if err != nil {
		return err
	}
	outFmt, err := ledger.FormatFromName(out)
	if err != nil {
		return err
	}

	src, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}
	defer src.Close()

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		dst, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer dst.Close()
		w = dst
	}

	n, err := recompute(src, inFmt, w, outFmt)
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "recomputed %d lines into %s\n", n, out)
	}
	return nil
}

// recompute copies a table from r to w, recomputing every line.
func recompute(r io.Reader, inFmt ledger.Format, w io.Writer, outFmt ledger.Format) (int, error) {
	recs, err := ledger.ReadTable(r, inFmt)
	if err != nil {
		return 0, err
	}

	recs = ledger.WithoutTotals(recs)
	items := make([]ledger.LineItem, len(recs))
	for i, rec := range recs {
		items[i] = ledger.Decode(rec)
	}
	out := make([]ledger.Record, len(items))
	for i, item := range ledger.ComputeAll(items) {
		out[i] = ledger.Encode(item)
	}

	if err := ledger.WriteTable(w, outFmt, out); err != nil {
		return 0, err
	}
	return len(out), nil
}
