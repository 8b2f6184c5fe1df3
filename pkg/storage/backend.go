package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Purpose selects the bucket and disposition of a signed link.
type Purpose string

const (
	// PurposeImage signs a plain inline URL from the images bucket.
	PurposeImage Purpose = "image"
	// PurposeDocument signs a forced-download URL from the documents bucket.
	PurposeDocument Purpose = "document"
)

// Backend issues time-limited URLs for stored objects.
type Backend interface {
	CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration, download bool) (string, error)
}

// LocalBackend signs links served by this API from a LocalStorage directory.
type LocalBackend struct {
	signer  *SignedURLSigner
	store   *LocalStorage
	baseURL string
}

// NewLocalBackend builds a backend whose URLs look like {baseURL}/{token}.
func NewLocalBackend(signer *SignedURLSigner, store *LocalStorage, baseURL string) *LocalBackend {
	return &LocalBackend{signer: signer, store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// CreateSignedURL fails for objects missing from disk, mirroring a remote "object not found".
func (b *LocalBackend) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration, download bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b.store != nil {
		ok, err := b.store.Exists(bucket, path)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("object not found: %s/%s", bucket, path)
		}
	}
	token, _, err := b.signer.Generate(bucket, path, download, ttl)
	if err != nil {
		return "", err
	}
	return b.baseURL + "/" + url.PathEscape(token), nil
}

// Resolve validates a token produced by CreateSignedURL.
func (b *LocalBackend) Resolve(token string) (*SignedObject, error) {
	return b.signer.Parse(token, false)
}

// Store exposes the underlying object directory.
func (b *LocalBackend) Store() *LocalStorage {
	return b.store
}
