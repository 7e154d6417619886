package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"

	"api_ledger/internal/blob"
)

// Store persists an attachment under name and returns its reference URL.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// LocalStore writes attachments into a directory served at URLPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore returns a LocalStore for dir. URLs are urlPrefix + "/" + name.
func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}
}

// Dir is the directory holding the attachments.
func (l *LocalStore) Dir() string { return l.dir }

func (l *LocalStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	dst := filepath.Join(l.dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path.Join(l.urlPrefix, name), nil
}

// BlobStore writes attachments into the blob store under a key prefix.
type BlobStore struct {
	client *blob.Client
	prefix string
}

// NewBlobStore returns a BlobStore writing keys prefix/<name>.
func NewBlobStore(client *blob.Client, prefix string) *BlobStore {
	return &BlobStore{client: client, prefix: prefix}
}

func (b *BlobStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return b.client.Put(ctx, path.Join(b.prefix, name), buf.Bytes(), ct)
}
