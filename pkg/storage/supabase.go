package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	storagego "github.com/supabase-community/storage-go"
)

// SupabaseBackend signs objects through the Supabase Storage API.
type SupabaseBackend struct {
	endpoint string
	client   *storagego.Client
}

// NewSupabaseBackend constructs a backend for the project at baseURL (https://<ref>.supabase.co).
func NewSupabaseBackend(baseURL, serviceKey string) *SupabaseBackend {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return &SupabaseBackend{}
	}
	endpoint := baseURL + "/storage/v1"
	return &SupabaseBackend{
		endpoint: endpoint,
		client:   storagego.NewClient(endpoint, serviceKey, map[string]string{"apikey": serviceKey}),
	}
}

type signResult struct {
	link string
	err  error
}

// CreateSignedURL returns an absolute URL valid for ttl. download forces an attachment disposition.
func (b *SupabaseBackend) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration, download bool) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("storage url not configured")
	}
	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		seconds = 3600
	}

	// The client takes no context; a result arriving after ctx is done is dropped.
	done := make(chan signResult, 1)
	go func() {
		res, err := b.client.CreateSignedUrl(url.PathEscape(bucket), escapeKey(path), seconds)
		done <- signResult{link: res.SignedURL, err: err}
	}()

	var res signResult
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("sign %s/%s: %w", bucket, path, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return "", fmt.Errorf("sign %s/%s: %w", bucket, path, res.err)
	}
	if res.link == b.endpoint {
		return "", fmt.Errorf("sign %s/%s: empty signed url", bucket, path)
	}

	link := res.link
	if download {
		if strings.Contains(link, "?") {
			link += "&download="
		} else {
			link += "?download="
		}
	}
	return link, nil
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
