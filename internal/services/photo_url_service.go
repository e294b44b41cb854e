package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// PhotoURLService issues and verifies time-limited photo URLs. The stored
// key and its expiry are bound together by an HMAC, so neither can be
// swapped without invalidating the signature; nothing is persisted.
type PhotoURLService struct {
	secret []byte
	ttl    time.Duration
}

// NewPhotoURLService creates a new photo URL service
func NewPhotoURLService(secret string, ttl time.Duration) *PhotoURLService {
	return &PhotoURLService{secret: []byte(secret), ttl: ttl}
}

func (s *PhotoURLService) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedPath returns a time-limited request path for a stored photo key.
// An empty key passes through: not every visit carries both photos in old
// data.
func (s *PhotoURLService) SignedPath(key string) string {
	if key == "" {
		return ""
	}

	expires := time.Now().Add(s.ttl).Unix()
	return fmt.Sprintf("/api/v1/photos/%s?expires=%d&sig=%s", key, expires, s.sign(key, expires))
}

// Verify checks the signature and expiry carried by a photo request.
// Signature first: an attacker must not learn whether a forged URL would
// have been in date.
func (s *PhotoURLService) Verify(key, expiresParam, sig string) error {
	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		return ErrPhotoURLInvalid
	}

	expected := s.sign(key, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrPhotoURLInvalid
	}

	if time.Now().Unix() > expires {
		return ErrPhotoURLExpired
	}

	return nil
}
