package mrr

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"log/slog"
	"strings"
)

// Credentials identify an MRR API key pair. They are read-only once handed
// to a Client and are never written to logs.
type Credentials struct {
	APIKey    string
	APISecret string
}

// String hides the secret so credentials can't leak through %v.
func (c Credentials) String() string {
	return "Credentials{APIKey: " + maskKey(c.APIKey) + "}"
}

// LogValue implements slog.LogValuer.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("api_key", maskKey(c.APIKey)))
}

// Sign returns the hex HMAC-SHA1 of the canonical string for nonce and basePath.
func (c Credentials) Sign(nonce, basePath string) string {
	return Sign(c.APISecret, CanonicalString(c.APIKey, nonce, basePath))
}

// SplitPath separates the part of an endpoint that is signed from the
// literal query tail that is only appended to the request URI. The tail
// keeps its leading '?'.
func SplitPath(path string) (basePath, queryTail string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i:]
	}
	return path, ""
}

// CanonicalString is the exact byte sequence the server verifies:
// key, nonce and base path concatenated with no delimiters.
func CanonicalString(apiKey, nonce, basePath string) string {
	return apiKey + nonce + basePath
}

// Sign computes hex(HMAC-SHA1(secret, canonical)).
func Sign(secret, canonical string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is what creds would produce for nonce
// and path. Any query tail on path is ignored, as it is when signing.
func Verify(creds Credentials, nonce, path, signature string) bool {
	basePath, _ := SplitPath(path)
	expected := creds.Sign(nonce, basePath)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
