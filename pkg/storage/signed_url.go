package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// SignedObject is the metadata embedded in a local signed-link token.
type SignedObject struct {
	Bucket    string
	Path      string
	Download  bool
	ExpiresAt time.Time
}

// SignedURLSigner creates and validates signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner constructs a signer with the provided secret and default TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a token referencing the bucket and object path.
// A non-positive ttl falls back to the signer default.
func (s *SignedURLSigner) Generate(bucket, relPath string, download bool, ttl time.Duration) (string, time.Time, error) {
	if bucket == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("bucket and relPath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	expiresAt := time.Now().Add(ttl)
	encodedBucket := base64.RawURLEncoding.EncodeToString([]byte(bucket))
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	ts := fmt.Sprintf("%d", expiresAt.Unix())
	flag := dispositionFlag(download)
	signature := s.sign(encodedBucket, ts, encodedPath, flag)
	token := strings.Join([]string{encodedBucket, ts, encodedPath, flag, signature}, ".")
	return token, expiresAt, nil
}

// Parse validates a token and returns the embedded metadata.
// When allowExpired is true, the timestamp check is skipped.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (*SignedObject, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 5 {
		return nil, fmt.Errorf("invalid token format")
	}
	encodedBucket, ts, encodedPath, flag, signature := parts[0], parts[1], parts[2], parts[3], parts[4]

	expected := s.sign(encodedBucket, ts, encodedPath, flag)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("invalid token signature")
	}

	rawBucket, err := base64.RawURLEncoding.DecodeString(encodedBucket)
	if err != nil {
		return nil, fmt.Errorf("decode bucket: %w", err)
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}
	expUnix, err := parseUnix(ts)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Unix(expUnix, 0)
	if !allowExpired && time.Now().After(expiresAt) {
		return nil, fmt.Errorf("token expired")
	}
	return &SignedObject{
		Bucket:    string(rawBucket),
		Path:      string(rawPath),
		Download:  flag == "d",
		ExpiresAt: expiresAt,
	}, nil
}

func (s *SignedURLSigner) sign(encodedBucket, ts, encodedPath, flag string) string {
	payload := strings.Join([]string{encodedBucket, ts, encodedPath, flag}, "|")
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func dispositionFlag(download bool) string {
	if download {
		return "d"
	}
	return "i"
}

func parseUnix(raw string) (int64, error) {
	var ts int64
	_, err := fmt.Sscanf(raw, "%d", &ts)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp")
	}
	return ts, nil
}
