package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// KeySeparator joins the prefix and parts of a cache key.
const KeySeparator = ":"

// Key builds a cache key by joining prefix and parts with KeySeparator.
//
//	Key("repos", "list", "all", 1) == "repos:list:all:1"
//
// Parts are rendered in order, so callers must normalize optional
// arguments (apply defaults) before calling Key for equivalent requests to
// share an entry. A separator or '%' inside a part is percent-encoded, so
// distinct part lists never produce the same key. With no parts the key is
// the bare prefix.
func Key(prefix string, parts ...any) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteString(KeySeparator)
		b.WriteString(partEscaper.Replace(formatPart(p)))
	}
	return b.String()
}

var partEscaper = strings.NewReplacer("%", "%25", KeySeparator, "%3A")

func formatPart(p any) string {
	switch v := p.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Keyer derives cache keys from a tool ID and its input when the caller has
// no natural list of key parts.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from tool ID and input.
	Key(toolID string, input any) (string, error)
}

// DigestKeyer generates keys of the form <toolID>:<hash>, where hash is the
// first 16 hex characters of SHA-256 over canonical JSON of the input.
// Free-text inputs such as search queries may themselves contain the key
// separator; hashing keeps them from colliding with other key layouts.
type DigestKeyer struct{}

// NewDigestKeyer creates a new digest keyer.
func NewDigestKeyer() *DigestKeyer {
	return &DigestKeyer{}
}

// Key generates a deterministic cache key.
func (k *DigestKeyer) Key(toolID string, input any) (string, error) {
	canonical, err := canonicalize(input)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize input: %w", err)
	}

	hash := sha256.Sum256(canonical)
	return Key(toolID, hex.EncodeToString(hash[:8])), nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, '}'), nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}
		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, ']'), nil
}

var _ Keyer = (*DigestKeyer)(nil)
