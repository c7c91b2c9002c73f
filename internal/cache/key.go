package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key derives a content-hash key for an operation from its parameters.
// Each part is JSON-encoded, so equal inputs always map to the same key.
func Key(op string, parts ...any) (string, error) {
	d := xxhash.New()
	_, _ = d.WriteString(op)
	for i, p := range parts {
		raw, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("cache key %s part %d: %w", op, i, err)
		}
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(raw)
	}
	return fmt.Sprintf("%s:%016x", op, d.Sum64()), nil
}
