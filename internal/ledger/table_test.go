package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const headerLine = "Invoice,Purchase_Date,Item,Hammer,Buyer_Premium_15%,Lot_Fee,Tax,Paid_Total,Marketplace,Sold For,Marketplace_Fees,Shipping_Cost,Realized_Profit,Realized_ROI\n"

func TestReadCSV(t *testing.T) {
	in := "\ufeff" + headerLine +
		`INV-1,2024-01-05,"Lamp, brass",40,6,2.5,1.5,"1,050",eBay,100,10,5,35,0.7` + "\n" +
		"\n" +
		"INV-2,2024-01-06,Vase,10\n" +
		"INV-3,,Clock,1,2,3,4,5,Etsy,0,0,0,0,,extra,cells\n" +
		",,Totals,51,,,,,,,,,,\n"

	recs, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, "INV-1", recs[0][ColInvoice])
	assert.Equal(t, "Lamp, brass", recs[0][ColItem])
	assert.Equal(t, "1,050", recs[0][ColPaidTotal])

	// ragged short row: trailing columns absent
	assert.Equal(t, "10", recs[1][ColHammer])
	_, ok := recs[1][ColBuyerPremium]
	assert.False(t, ok)
	short := Decode(recs[1])
	assert.Equal(t, 0.0, short.PaidTotal)
	assert.Equal(t, "", short.Marketplace)

	// ragged long row: extra cells ignored
	assert.Len(t, recs[2], len(Headers))
	assert.Equal(t, "Etsy", recs[2][ColMarketplace])

	assert.True(t, IsTotalsRow(recs[3]))
}

func TestReadCSV_Empty(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	recs := []Record{
		sampleRecord(),
		Encode(EmptyLineItem()),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))
	assert.True(t, strings.HasPrefix(buf.String(), headerLine))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, recs, back)
}

func TestXLSX_RoundTrip(t *testing.T) {
	items := []LineItem{
		ComputeFinancials(Decode(sampleRecord())),
		ComputeFinancials(Decode(Record{ColInvoice: "INV-9", ColItem: "Rug", ColPaidTotal: "12.5"})),
	}
	recs := []Record{Encode(items[0]), Encode(items[1])}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, recs))

	back, err := ReadXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, back, 2)
	for i := range items {
		assert.Equal(t, items[i], ComputeFinancials(Decode(back[i])))
	}
}

func TestReadXLSX_StyledNumbers(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	require.NoError(t, f.SetCellValue(sheet, "C2", "Clock"))
	require.NoError(t, f.SetCellValue(sheet, "H2", 1234.5))
	require.NoError(t, f.SetCellValue(sheet, "J2", 2000))

	currency := "$#,##0.00"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currency})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "H2", "J2", style))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	recs, err := ReadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	item := ComputeFinancials(Decode(recs[0]))
	assert.Equal(t, 1234.5, item.PaidTotal)
	assert.Equal(t, 2000.0, item.SoldFor)
	assert.Equal(t, 765.5, item.RealizedProfit)
	ratio, ok := item.RealizedROI.Ratio()
	require.True(t, ok)
	assert.InDelta(t, 765.5/1234.5, ratio, 1e-12)
}

func TestFormatFromName(t *testing.T) {
	f, err := FormatFromName("export.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = FormatFromName("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromName("ledger.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
