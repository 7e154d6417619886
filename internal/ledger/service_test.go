package ledger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type failingStorage struct{}

func (failingStorage) LoadTable(ctx context.Context) ([]Record, error) {
	return nil, errors.Join(ErrUnreadable, errors.New("disk gone"))
}

func (failingStorage) SaveTable(ctx context.Context, recs []Record) error {
	return errors.Join(ErrUnwritable, errors.New("disk gone"))
}

func newTestService(t *testing.T, recs ...Record) *Service {
	t.Helper()
	svc := NewService(NewMemoryStorage(recs...), zaptest.NewLogger(t))
	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	return svc
}

// TestNewService checks the service is initialised.
func TestNewService(t *testing.T) {
	svc := NewService(NewMemoryStorage(), nil, WithCurrency("eur"))

	if svc == nil {
		t.Fatal("NewService returned nil")
	}
	if svc.storage == nil {
		t.Error("Service storage was not initialized")
	}
	if svc.logger == nil {
		t.Error("Service logger was not initialized")
	}
	assert.Equal(t, "EUR", svc.currency)
	assert.Empty(t, svc.List(""))
}

func TestService_Load(t *testing.T) {
	sold := sampleRecord()
	sold[ColRealizedProfit] = "999"
	unsold := Record{ColInvoice: "INV-2", ColItem: "Vase", ColPaidTotal: "20", ColRealizedProfit: "-3", ColRealizedROI: "0.1"}
	totals := Record{ColItem: " TOTALS ", ColPaidTotal: "70"}

	svc := newTestService(t, sold, unsold, totals)

	lines := svc.List("")
	require.Len(t, lines, 2)

	assert.Equal(t, "INV-1001", lines[0].Invoice)
	assert.Equal(t, 35.0, lines[0].RealizedProfit, "sold lines are recomputed on load")
	assert.Equal(t, 1, lines[0].Version)
	assert.NotEmpty(t, lines[0].ID)

	assert.Equal(t, -3.0, lines[1].RealizedProfit, "unsold lines keep their profit")
	assert.False(t, lines[1].RealizedROI.Present())
	assert.NotEqual(t, lines[0].ID, lines[1].ID)
}

func TestService_LoadFailure(t *testing.T) {
	svc := NewService(failingStorage{}, zaptest.NewLogger(t))

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, ErrUnreadable)

	err = svc.Save(context.Background())
	assert.ErrorIs(t, err, ErrUnwritable)
}

func TestService_List_Search(t *testing.T) {
	svc := newTestService(t,
		Record{ColInvoice: "A-1", ColItem: "Brass Lamp", ColMarketplace: "eBay"},
		Record{ColInvoice: "B-2", ColItem: "Oak chair", ColMarketplace: "Etsy"},
		Record{ColInvoice: "lamp-3", ColItem: "Rug", ColMarketplace: ""},
	)

	assert.Len(t, svc.List("LAMP"), 2)
	assert.Len(t, svc.List("etsy"), 1)
	assert.Len(t, svc.List("  "), 3)
	assert.Empty(t, svc.List("piano"))
}

func TestService_UpdateField(t *testing.T) {
	svc := newTestService(t, Record{ColInvoice: "A-1", ColItem: "Lamp", ColPaidTotal: "50"})
	later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return later }

	id := svc.List("")[0].ID

	e, err := svc.UpdateField(id, "soldFor", "1,00")
	require.NoError(t, err)
	assert.Equal(t, 100.0, e.SoldFor)
	assert.Equal(t, 50.0, e.RealizedProfit)
	ratio, ok := e.RealizedROI.Ratio()
	require.True(t, ok)
	assert.Equal(t, 1.0, ratio)
	assert.Equal(t, 2, e.Version)
	assert.Equal(t, later, e.UpdatedAt)

	e, err = svc.UpdateField(id, "shippingCost", "abc")
	require.NoError(t, err)
	assert.Equal(t, 0.0, e.ShippingCost)

	e, err = svc.UpdateField(id, "item", "  Lamp (pair) ")
	require.NoError(t, err)
	assert.Equal(t, "  Lamp (pair) ", e.Item)
	assert.Equal(t, 4, e.Version)

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestService_UpdateField_NonString(t *testing.T) {
	svc := newTestService(t, Record{ColItem: "Lamp", ColPaidTotal: "40"})
	id := svc.List("")[0].ID

	e, err := svc.UpdateField(id, "soldFor", 100.0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, e.SoldFor)
	assert.Equal(t, 60.0, e.RealizedProfit)

	e, err = svc.UpdateField(id, "invoice", 1042.0)
	require.NoError(t, err)
	assert.Equal(t, "1042", e.Invoice)

	e, err = svc.UpdateField(id, "marketplace", nil)
	require.NoError(t, err)
	assert.Equal(t, "", e.Marketplace)

	e, err = svc.UpdateField(id, "shippingCost", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, e.ShippingCost)
}

func TestService_UpdateField_Errors(t *testing.T) {
	svc := newTestService(t, Record{ColItem: "Lamp"})
	id := svc.List("")[0].ID

	_, err := svc.UpdateField("missing", "item", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateField(id, "colour", "red")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = svc.UpdateField(id, "realizedRoi", "0.5")
	assert.ErrorIs(t, err, ErrReadOnlyField)

	e, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Version, "rejected edits do not bump the version")
}

func TestService_AddBlank(t *testing.T) {
	svc := newTestService(t, Record{ColItem: "Lamp"})

	e := svc.AddBlank()
	lines := svc.List("")
	require.Len(t, lines, 2)
	assert.Equal(t, e.ID, lines[0].ID)
	assert.Equal(t, EmptyLineItem(), lines[0].LineItem)
}

func TestService_Import(t *testing.T) {
	svc := newTestService(t, Record{ColInvoice: "OLD", ColItem: "Lamp"})

	in := headerLine +
		"NEW-1,,Chair,,,,,10,eBay,30,3,2,,\n" +
		"NEW-2,,   ,,,,,10,eBay,30,3,2,,\n" +
		",,Totals,,,,,10,,30,3,2,,\n"
	n, err := svc.Import(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lines := svc.List("")
	require.Len(t, lines, 2)
	assert.Equal(t, "NEW-1", lines[0].Invoice)
	assert.Equal(t, 15.0, lines[0].RealizedProfit)
	assert.Equal(t, "OLD", lines[1].Invoice)
}

func TestService_SaveAndExport(t *testing.T) {
	store := NewMemoryStorage(sampleRecord(), Record{ColItem: "Totals"})
	svc := NewService(store, zaptest.NewLogger(t))
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	id := svc.List("")[0].ID
	_, err = svc.UpdateField(id, "shippingCost", "15")
	require.NoError(t, err)

	require.NoError(t, svc.Save(context.Background()))
	saved, err := store.LoadTable(context.Background())
	require.NoError(t, err)
	require.Len(t, saved, 1, "totals row is not written back")
	assert.Equal(t, "25", saved[0][ColRealizedProfit])
	assert.Equal(t, "0.5", saved[0][ColRealizedROI])

	var buf bytes.Buffer
	require.NoError(t, svc.Export(&buf, FormatCSV))
	assert.Equal(t, headerLine+"INV-1001,2024-03-02,\"Brass lamp, pair\",40,6,2.5,1.5,50,eBay,100,10,15,25,0.5\n", buf.String())

	assert.ErrorIs(t, svc.Export(&buf, Format("pdf")), ErrUnsupportedFormat)
}

func TestService_Summary(t *testing.T) {
	svc := newTestService(t,
		sampleRecord(),
		Record{ColItem: "Vase", ColPaidTotal: "30", ColRealizedProfit: "0"},
	)

	s := svc.Summary("")
	assert.Equal(t, 2, s.Lines)
	assert.Equal(t, 1, s.SoldLines)
	assert.Equal(t, 80.0, s.Paid)
	assert.Equal(t, 35.0, s.Realized)

	assert.Equal(t, 1, svc.Summary("vase").Lines)
}
