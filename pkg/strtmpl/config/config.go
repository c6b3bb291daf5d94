package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl"
)

// Config wraps a decoded document for variable lookup.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// Lookup returns the scalar value at the dotted path name.
func (c Config) Lookup(name string) (string, bool) {
	v, ok := lookupPath(c.data, name)
	if !ok {
		return "", false
	}
	return formatScalar(v)
}

func lookupPath(m map[string]any, path string) (any, bool) {
	if v, ok := m[path]; ok {
		return v, true
	}
	// Try every split point so keys containing dots still resolve.
	for i := strings.IndexByte(path, '.'); i >= 0; {
		head, rest := path[:i], path[i+1:]
		if child, ok := asMap(m[head]); ok {
			if v, ok := lookupPath(child, rest); ok {
				return v, true
			}
		}
		next := strings.IndexByte(path[i+1:], '.')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

func formatScalar(v any) (string, bool) {
	switch val := v.(type) {
	case nil, map[string]any, map[any]any, []any:
		return "", false
	case string:
		return val, true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

// Resolver returns a strtmpl.Resolver backed by Lookup.
func (c Config) Resolver() strtmpl.Resolver {
	return c.Lookup
}

// Keys returns the sorted dotted paths of every scalar value.
func (c Config) Keys() []string {
	var keys []string
	collectKeys(c.data, "", &keys)
	sort.Strings(keys)
	return keys
}

func collectKeys(m map[string]any, prefix string, keys *[]string) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if child, ok := asMap(v); ok {
			collectKeys(child, path, keys)
			continue
		}
		if _, ok := formatScalar(v); ok {
			*keys = append(*keys, path)
		}
	}
}

// Vars returns every scalar value keyed by its dotted path.
func (c Config) Vars() map[string]string {
	out := make(map[string]string)
	for _, k := range c.Keys() {
		if v, ok := c.Lookup(k); ok {
			out[k] = v
		}
	}
	return out
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
//
// Accepts int, int64, and float64 values without a fractional part.
func (c Config) Int(key string, defaultVal int) int {
	switch val := c.data[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Strings are parsed with time.ParseDuration; numbers are seconds.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case time.Duration:
		return val
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal if missing or not convertible.
//
// Non-string elements of a []any are skipped.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	switch val := c.data[key].(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case string:
		return []string{val}
	}
	return defaultVal
}
