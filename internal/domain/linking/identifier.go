package linking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strings"
)

// Codec derives externally safe identifiers from raw account identifiers.
// Derivation is keyed so the output is stable across restarts but does not
// reveal the account id to a casual observer.
type Codec struct {
	key []byte
}

// NewCodec creates a Codec from a derivation secret.
func NewCodec(secret string) *Codec {
	return &Codec{key: []byte(secret)}
}

// DeriveShareableID returns the shareable identifier for an account id.
// The transform is a pure function: equal input always yields equal output.
func (c *Codec) DeriveShareableID(accountID string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(accountID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// ExtractCustomerReference parses the trailing path segment of a processor
// resource URL, e.g. ".../customers/{id}" yields "{id}". Returns
// ErrMalformedResourceURL when no segment can be extracted.
func ExtractCustomerReference(resourceURL string) (string, error) {
	parsed, err := url.Parse(resourceURL)
	if err != nil {
		return "", ErrMalformedResourceURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return "", ErrMalformedResourceURL
	}

	segments := strings.Split(path, "/")
	id := segments[len(segments)-1]
	if id == "" {
		return "", ErrMalformedResourceURL
	}

	return id, nil
}
