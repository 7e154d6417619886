package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"api_ledger/internal/blob"
)

// ErrUnreadable is returned when the table cannot be loaded from storage.
var ErrUnreadable = errors.New("unable to read table")

// ErrUnwritable is returned when the table cannot be saved to storage.
var ErrUnwritable = errors.New("unable to write table")

// Storage is the backend holding the tabular file.
type Storage interface {
	LoadTable(ctx context.Context) ([]Record, error)
	SaveTable(ctx context.Context, recs []Record) error
}

// MemoryStorage keeps the table in memory.
type MemoryStorage struct {
	mu   sync.Mutex
	recs []Record
}

// NewMemoryStorage instantiates a MemoryStorage seeded with recs.
func NewMemoryStorage(recs ...Record) *MemoryStorage {
	return &MemoryStorage{recs: cloneRecords(recs)}
}

func (m *MemoryStorage) LoadTable(ctx context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRecords(m.recs), nil
}

func (m *MemoryStorage) SaveTable(ctx context.Context, recs []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = cloneRecords(recs)
	return nil
}

func cloneRecords(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		c := make(Record, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}

// FileStorage keeps the table as a CSV file on local disk.
type FileStorage struct {
	path string
}

// NewFileStorage returns a FileStorage for the CSV file at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) LoadTable(ctx context.Context) ([]Record, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer file.Close()

	recs, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return recs, nil
}

// SaveTable writes to a temporary file next to the target and renames it
// into place.
func (f *FileStorage) SaveTable(ctx context.Context, recs []Record) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	tmp, err := os.CreateTemp(dir, ".sot-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, recs); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	return nil
}

// BlobStorage keeps the table as a CSV object in the blob store.
type BlobStorage struct {
	client *blob.Client
	key    string
}

// NewBlobStorage returns a BlobStorage for the object key.
func NewBlobStorage(client *blob.Client, key string) *BlobStorage {
	return &BlobStorage{client: client, key: key}
}

func (b *BlobStorage) LoadTable(ctx context.Context) ([]Record, error) {
	data, err := b.client.Get(ctx, b.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	recs, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return recs, nil
}

func (b *BlobStorage) SaveTable(ctx context.Context, recs []Record) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, recs); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	if _, err := b.client.Put(ctx, b.key, buf.Bytes(), FormatCSV.ContentType()); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	return nil
}
