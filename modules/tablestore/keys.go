package tablestore

import (
	"encoding/base64"
	"fmt"
)

// encodeKey maps an arbitrary aggregate name onto the restricted key alphabet
// of JetStream KV, Redis glob patterns and S3 object keys.
func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func decodeKey(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid stored key %q: %w", encoded, err)
	}
	return string(raw), nil
}
