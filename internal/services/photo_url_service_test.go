package services

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSignedPath(t *testing.T, signed string) (key, expires, sig string) {
	t.Helper()

	parsed, err := url.Parse(signed)
	require.NoError(t, err)

	key = strings.TrimPrefix(parsed.Path, "/api/v1/photos/")
	return key, parsed.Query().Get("expires"), parsed.Query().Get("sig")
}

func TestPhotoURLRoundTrip(t *testing.T) {
	svc := NewPhotoURLService("url-secret", 15*time.Minute)

	signed := svc.SignedPath("tenant-a/photo.jpg")
	key, expires, sig := parseSignedPath(t, signed)

	assert.Equal(t, "tenant-a/photo.jpg", key)
	assert.NoError(t, svc.Verify(key, expires, sig))
}

func TestPhotoURLEmptyKeyPassesThrough(t *testing.T) {
	svc := NewPhotoURLService("url-secret", 15*time.Minute)
	assert.Empty(t, svc.SignedPath(""))
}

func TestPhotoURLVerifyRejections(t *testing.T) {
	svc := NewPhotoURLService("url-secret", 15*time.Minute)

	signed := svc.SignedPath("tenant-a/photo.jpg")
	key, expires, sig := parseSignedPath(t, signed)

	t.Run("Tampered Key", func(t *testing.T) {
		assert.ErrorIs(t, svc.Verify("tenant-b/photo.jpg", expires, sig), ErrPhotoURLInvalid)
	})

	t.Run("Tampered Expiry", func(t *testing.T) {
		later := fmt.Sprintf("%d", time.Now().Add(24*time.Hour).Unix())
		assert.ErrorIs(t, svc.Verify(key, later, sig), ErrPhotoURLInvalid)
	})

	t.Run("Malformed Expiry", func(t *testing.T) {
		assert.ErrorIs(t, svc.Verify(key, "soon", sig), ErrPhotoURLInvalid)
	})

	t.Run("Missing Signature", func(t *testing.T) {
		assert.ErrorIs(t, svc.Verify(key, expires, ""), ErrPhotoURLInvalid)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewPhotoURLService("other-secret", 15*time.Minute)
		assert.ErrorIs(t, other.Verify(key, expires, sig), ErrPhotoURLInvalid)
	})
}

func TestPhotoURLExpiry(t *testing.T) {
	// A negative TTL signs a URL that is already past its expiry; the
	// signature itself is still genuine.
	svc := NewPhotoURLService("url-secret", -time.Minute)

	key, expires, sig := parseSignedPath(t, svc.SignedPath("tenant-a/photo.jpg"))
	assert.ErrorIs(t, svc.Verify(key, expires, sig), ErrPhotoURLExpired)
}
