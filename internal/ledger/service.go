package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no line of the working set has the given ID.
var ErrNotFound = errors.New("line not found")

// ErrUnknownField is returned when an edit names a field LineItem lacks.
var ErrUnknownField = errors.New("unknown field")

// ErrReadOnlyField is returned when an edit targets a derived-only field.
var ErrReadOnlyField = errors.New("field is derived and cannot be edited")

// DefaultCurrency is the ISO code used for summary display strings.
const DefaultCurrency = "USD"

// Service holds the working set of lines loaded from a Storage backend.
type Service struct {
	storage  Storage
	logger   *zap.Logger
	currency string
	now      func() time.Time

	mu      sync.RWMutex
	entries []*Entry
}

// Option configures a Service.
type Option func(*Service)

// WithCurrency sets the ISO currency code used by Summary.
func WithCurrency(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.currency = strings.ToUpper(code)
		}
	}
}

// NewService creates a new Service with an empty working set.
func NewService(storage Storage, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	s := &Service{
		storage:  storage,
		logger:   logger,
		currency: DefaultCurrency,
		now:      time.Now,
		entries:  []*Entry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the working set with the table held by storage. Totals
// rows are dropped and every line is recomputed.
func (s *Service) Load(ctx context.Context) (int, error) {
	recs, err := s.storage.LoadTable(ctx)
	if err != nil {
		s.logger.Error("failed to load table", zap.Error(err))
		return 0, err
	}

	entries := s.newEntries(WithoutTotals(recs))

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.logger.Info("table loaded",
		zap.Int("rows_read", len(recs)),
		zap.Int("lines", len(entries)),
	)
	return len(entries), nil
}

// Save writes the whole working set back through storage.
func (s *Service) Save(ctx context.Context) error {
	recs := s.Records()
	if err := s.storage.SaveTable(ctx, recs); err != nil {
		s.logger.Error("failed to save table", zap.Error(err))
		return err
	}
	s.logger.Info("table saved", zap.Int("lines", len(recs)))
	return nil
}

// List returns the lines matching query, in working set order. An empty
// query matches everything; otherwise item, invoice and marketplace are
// searched case-insensitively.
func (s *Service) List(query string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if q != "" && !matches(e.LineItem, q) {
			continue
		}
		out = append(out, *e)
	}
	return out
}

// Get returns the line with the given ID.
func (s *Service) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.find(id)
	if !ok {
		return Entry{}, ErrNotFound
	}
	return *e, nil
}

// AddBlank puts a blank line at the top of the working set.
func (s *Service) AddBlank() Entry {
	e := s.newEntry(ComputeFinancials(EmptyLineItem()))

	s.mu.Lock()
	s.entries = append([]*Entry{e}, s.entries...)
	s.mu.Unlock()

	s.logger.Info("line added", zap.String("line_id", e.ID))
	return *e
}

// UpdateField edits one field of a line and recomputes its financials.
// Text fields take value verbatim (non-strings are rendered with
// fmt.Sprint); numeric fields go through NormalizeNumber.
func (s *Service) UpdateField(id, field string, value any) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.find(id)
	if !ok {
		return Entry{}, ErrNotFound
	}

	item := e.LineItem
	if err := setField(&item, field, value); err != nil {
		s.logger.Warn("rejected field edit",
			zap.String("line_id", id),
			zap.String("field", field),
			zap.Error(err),
		)
		return Entry{}, err
	}

	e.LineItem = ComputeFinancials(item)
	e.Version++
	e.UpdatedAt = s.now()

	s.logger.Debug("line updated",
		zap.String("line_id", id),
		zap.String("field", field),
		zap.Int("version", e.Version),
	)
	return *e, nil
}

// Import reads a table and puts its lines at the top of the working set.
// Totals rows and rows with a blank item are skipped.
func (s *Service) Import(r io.Reader, f Format) (int, error) {
	recs, err := ReadTable(r, f)
	if err != nil {
		return 0, err
	}
	return s.ImportRecords(recs), nil
}

// ImportRecords is Import for records that are already parsed.
func (s *Service) ImportRecords(recs []Record) int {
	kept := make([]Record, 0, len(recs))
	for _, rec := range WithoutTotals(recs) {
		if strings.TrimSpace(rec[ColItem]) == "" {
			continue
		}
		kept = append(kept, rec)
	}
	entries := s.newEntries(kept)

	s.mu.Lock()
	s.entries = append(entries, s.entries...)
	s.mu.Unlock()

	s.logger.Info("table imported",
		zap.Int("rows_read", len(recs)),
		zap.Int("lines", len(entries)),
	)
	return len(entries)
}

// Records encodes the working set in order.
func (s *Service) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]Record, len(s.entries))
	for i, e := range s.entries {
		recs[i] = Encode(e.LineItem)
	}
	return recs
}

// Export writes the working set as a table in format f.
func (s *Service) Export(w io.Writer, f Format) error {
	if err := WriteTable(w, f, s.Records()); err != nil {
		s.logger.Error("failed to export table", zap.String("format", string(f)), zap.Error(err))
		return fmt.Errorf("failed to export table: %w", err)
	}
	return nil
}

// Summary computes dashboard metrics over the lines matching query.
func (s *Service) Summary(query string) Summary {
	entries := s.List(query)
	items := make([]LineItem, len(entries))
	for i, e := range entries {
		items[i] = e.LineItem
	}
	return Summarize(items, s.currency)
}

func (s *Service) find(id string) (*Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

func (s *Service) newEntries(recs []Record) []*Entry {
	entries := make([]*Entry, len(recs))
	for i, rec := range recs {
		entries[i] = s.newEntry(ComputeFinancials(Decode(rec)))
	}
	return entries
}

func (s *Service) newEntry(item LineItem) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Version:   1,
		UpdatedAt: s.now(),
		LineItem:  item,
	}
}

func matches(item LineItem, q string) bool {
	return strings.Contains(strings.ToLower(item.Item), q) ||
		strings.Contains(strings.ToLower(item.Invoice), q) ||
		strings.Contains(strings.ToLower(item.Marketplace), q)
}

// setField assigns value to the field named by its JSON name.
func setField(item *LineItem, field string, value any) error {
	switch field {
	case "invoice":
		item.Invoice = textValue(value)
	case "purchaseDate":
		item.PurchaseDate = textValue(value)
	case "item":
		item.Item = textValue(value)
	case "marketplace":
		item.Marketplace = textValue(value)
	case "hammer":
		item.Hammer = NormalizeNumber(value)
	case "buyerPremium":
		item.BuyerPremium = NormalizeNumber(value)
	case "lotFee":
		item.LotFee = NormalizeNumber(value)
	case "tax":
		item.Tax = NormalizeNumber(value)
	case "paidTotal":
		item.PaidTotal = NormalizeNumber(value)
	case "soldFor":
		item.SoldFor = NormalizeNumber(value)
	case "marketplaceFees":
		item.MarketplaceFees = NormalizeNumber(value)
	case "shippingCost":
		item.ShippingCost = NormalizeNumber(value)
	case "realizedProfit":
		item.RealizedProfit = NormalizeNumber(value)
	case "realizedRoi":
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
